package main

import (
	"fmt"

	"encore/internal/store"
)

// withStore opens the release database for one command invocation.
func withStore(ctx *commandContext, fn func(*store.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	db, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	return fn(db)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

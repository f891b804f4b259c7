package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"encore/internal/library"
	"encore/internal/roster"
	"encore/internal/store"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the roster from the beets catalog without checking releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			db, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer db.Close()

			catalog, err := library.Open(cfg.Catalog.BeetsDB)
			if err != nil {
				return err
			}
			defer catalog.Close()

			snapshot, err := catalog.ListArtistsWithIDs(cmd.Context())
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}
			changed, err := roster.Reconcile(cmd.Context(), snapshot, db)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Reconciled %d catalog artists (%d changed)\n", len(snapshot), changed)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"encore/internal/library"
	"encore/internal/musicbrainz"
	"encore/internal/notifications"
	"encore/internal/runner"
	"encore/internal/store"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var artistFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Perform one discovery run",
		Long: "Reconcile the roster from the beets catalog, check due artists for new\n" +
			"releases on MusicBrainz, and notify once per discovered release.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pinger := notifications.NewHealthcheck(cfg, logger)
			// A run that dies before reaching the runner still owes the
			// monitor a failure signal.
			failSetup := func(err error) error {
				runID := uuid.NewString()
				pinger.Start(runCtx, runID)
				pinger.Result(runCtx, runID, false)
				return err
			}

			db, err := store.Open(cfg)
			if err != nil {
				return failSetup(fmt.Errorf("open store: %w", err))
			}
			defer db.Close()

			catalog, err := library.Open(cfg.Catalog.BeetsDB)
			if err != nil {
				return failSetup(err)
			}
			defer catalog.Close()

			client, err := musicbrainz.NewFromConfig(cfg)
			if err != nil {
				return failSetup(fmt.Errorf("build musicbrainz client: %w", err))
			}

			r, err := runner.New(runner.Params{
				Store:      db,
				Catalog:    catalog,
				Fetcher:    client,
				Notifier:   notifications.NewNtfy(cfg, logger),
				Pinger:     pinger,
				Logger:     logger,
				LockPath:   cfg.LockPath(),
				CheckLimit: cfg.MusicBrainz.DailyCheckLimit,
				WindowDays: cfg.MusicBrainz.ReleaseWindowDays,
			})
			if err != nil {
				return failSetup(err)
			}

			return r.Run(runCtx, runner.Options{Artist: artistFlag})
		},
	}

	cmd.Flags().StringVar(&artistFlag, "artist", "", "Check a single tracked artist and skip reconciliation")
	return cmd
}

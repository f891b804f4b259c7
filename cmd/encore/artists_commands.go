package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"encore/internal/store"
)

func newArtistsCommand(ctx *commandContext) *cobra.Command {
	artistsCmd := &cobra.Command{
		Use:   "artists",
		Short: "Inspect and manage the tracked artist roster",
	}

	artistsCmd.AddCommand(newArtistsListCommand(ctx))
	artistsCmd.AddCommand(newArtistsAddCommand(ctx))
	artistsCmd.AddCommand(newArtistsIgnoreCommand(ctx, true))
	artistsCmd.AddCommand(newArtistsIgnoreCommand(ctx, false))

	return artistsCmd
}

func newArtistsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked artists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(db *store.Store) error {
				artists, err := db.ListArtists(cmd.Context())
				if err != nil {
					return err
				}
				if len(artists) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No artists tracked yet; run `encore sync` to import the catalog.")
					return nil
				}

				rows := make([][]string, 0, len(artists))
				for _, artist := range artists {
					lastChecked := "never"
					if artist.LastCheckedAt != nil {
						lastChecked = artist.LastCheckedAt.Format("2006-01-02 15:04")
					}
					rows = append(rows, []string{
						artist.Name,
						artist.MBID,
						string(artist.Origin),
						yesNo(artist.Ignored),
						lastChecked,
						fmt.Sprintf("%d", artist.CheckCount),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Artist", "MBID", "Origin", "Ignored", "Last Checked", "Checks"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func newArtistsAddCommand(ctx *commandContext) *cobra.Command {
	var mbidFlag string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Track an artist that is not in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			return withStore(ctx, func(db *store.Store) error {
				created, err := db.AddArtistManual(cmd.Context(), name, mbidFlag)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !created {
					fmt.Fprintf(out, "Artist %q is already tracked\n", name)
					return nil
				}
				if strings.TrimSpace(mbidFlag) == "" {
					fmt.Fprintf(out, "Added %q without a MusicBrainz id; it will be skipped until a sync provides one\n", name)
				} else {
					fmt.Fprintf(out, "Added %q\n", name)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mbidFlag, "mbid", "", "MusicBrainz artist identifier")
	return cmd
}

func newArtistsIgnoreCommand(ctx *commandContext, ignore bool) *cobra.Command {
	use, short := "ignore NAME", "Exclude an artist from release checks"
	if !ignore {
		use, short = "unignore NAME", "Resume release checks for an artist"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			return withStore(ctx, func(db *store.Store) error {
				matched, err := db.SetIgnored(cmd.Context(), name, ignore)
				if err != nil {
					return err
				}
				if !matched {
					return fmt.Errorf("no tracked artist matches %q", name)
				}
				if ignore {
					fmt.Fprintf(cmd.OutOrStdout(), "Ignoring %q\n", name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Resumed checks for %q\n", name)
				}
				return nil
			})
		},
	}
}

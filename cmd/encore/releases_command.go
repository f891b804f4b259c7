package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"encore/internal/store"
)

func newReleasesCommand(ctx *commandContext) *cobra.Command {
	releasesCmd := &cobra.Command{
		Use:   "releases",
		Short: "Inspect discovered releases",
	}
	releasesCmd.AddCommand(newReleasesListCommand(ctx))
	return releasesCmd
}

func newReleasesListCommand(ctx *commandContext) *cobra.Command {
	var unnotifiedFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(db *store.Store) error {
				releases, err := db.ListReleases(cmd.Context(), unnotifiedFlag)
				if err != nil {
					return err
				}
				if len(releases) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No releases discovered yet.")
					return nil
				}

				rows := make([][]string, 0, len(releases))
				for _, release := range releases {
					rows = append(rows, []string{
						release.ReleaseDate,
						release.ArtistName,
						release.Title,
						release.Type,
						yesNo(release.Notified),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Date", "Artist", "Title", "Type", "Notified"},
					rows,
					nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&unnotifiedFlag, "unnotified", false, "Only show releases awaiting notification")
	return cmd
}

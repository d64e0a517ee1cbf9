package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"roomaudit/internal/coverage"
	"roomaudit/internal/report"
	"roomaudit/internal/roomdoc"
)

func newBadKeywordsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "badkw",
		Short: "Rank rooms whose keywords fail even fuzzy matching",
		Long: "badkw runs the permissive stemmed-containment matcher over every room " +
			"and ranks the worst offenders. It is report-only: unlike check, findings " +
			"here never fail the build.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := ctx.roomRepository()
			if err != nil {
				return err
			}

			rooms, stats, err := repo.Rooms()
			if err != nil {
				return fmt.Errorf("scan data dir: %w", err)
			}

			rep := &report.BadKeywords{FilesScanned: stats.Scanned}
			for _, room := range rooms {
				keywords := roomdoc.RoomKeywords(room.Doc)
				if len(keywords.EN) == 0 && len(keywords.VI) == 0 {
					continue
				}
				rep.RoomsWithKeywords++
				if bad := coverage.FuzzyCheckRoom(room.ID, room.File.Rel, room.Doc); bad != nil {
					rep.Rooms = append(rep.Rooms, *bad)
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), rep.Render())
			return nil
		},
	}
}

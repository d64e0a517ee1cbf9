package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"roomaudit/internal/coverage"
	"roomaudit/internal/report"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var allowEmptyRooms bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit keyword coverage and empty rooms in the data dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			repo, err := ctx.roomRepository()
			if err != nil {
				return err
			}

			rooms, stats, err := repo.Rooms()
			if err != nil {
				return fmt.Errorf("scan data dir: %w", err)
			}

			var findings []coverage.Finding
			for _, room := range rooms {
				findings = append(findings, coverage.CheckRoom(room.ID, room.File.Rel, room.Doc)...)
			}

			rep := &report.Coverage{
				RoomCount:       len(rooms),
				Findings:        findings,
				AllowEmptyRooms: allowEmptyRooms || cfg.Checks.AllowEmptyRooms,
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("keyword coverage", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("files scanned", statusInfo, fmt.Sprintf("%d", stats.Scanned), colorize))
			fmt.Fprintln(out, renderStatusLine("files excluded", statusInfo, fmt.Sprintf("%d", stats.Excluded), colorize))
			if stats.Invalid > 0 {
				fmt.Fprintln(out, renderStatusLine("invalid JSON", statusWarn, fmt.Sprintf("%d (skipped as orphans)", stats.Invalid), colorize))
				for _, file := range stats.InvalidFiles {
					fmt.Fprintf(out, "%s  - %s\n", statusIndent, file)
				}
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, rep.Render())

			if rep.ExitCode() != report.ExitOK {
				return fmt.Errorf("keyword coverage audit failed: %d hard findings", rep.HardCount())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowEmptyRooms, "allow-empty-rooms", false,
		"Demote zero-entry rooms from hard failure to report-only")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"roomaudit/internal/repair"
)

func newRepairCommand(ctx *commandContext) *cobra.Command {
	var (
		apply      bool
		roomFilter string
		scan       string
		governance string
	)

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Run the governed auto-repair batch over the rooms table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			runner, err := repair.NewRunner(cfg, st, logger)
			if err != nil {
				return err
			}

			summary, err := runner.Run(cmd.Context(), repair.RunOptions{
				Apply:      apply,
				RoomFilter: roomFilter,
				Governance: governance,
				Scan:       scan,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("repair run "+summary.RunID, colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("mode", statusInfo, summary.Mode, colorize))
			fmt.Fprintln(out, renderStatusLine("governance", statusInfo, summary.Governance, colorize))
			fmt.Fprintln(out, renderStatusLine("scan", statusInfo, summary.Scan, colorize))
			fmt.Fprintln(out, renderStatusLine("budget hit", statusInfo, yesNo(summary.BudgetHit), colorize))

			var rows [][]string
			for _, room := range summary.Rooms {
				if len(room.IssuesFixed) == 0 && len(room.Suggestions) == 0 && room.Skipped == "" {
					continue
				}
				rows = append(rows, []string{
					room.RoomID,
					fmt.Sprintf("%d", len(room.IssuesFixed)),
					fmt.Sprintf("%d", len(room.Suggestions)),
					fmt.Sprintf("%d", room.HealthScore),
					fmt.Sprintf("%d", room.AudioCoverage),
					yesNo(room.Written),
					room.Skipped,
				})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Room", "Fixes", "Blocked", "Health", "Audio", "Written", "Skipped"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft},
				))
			}

			fmt.Fprintf(out, "\nScanned %d rooms: %d fixable, %d skipped, %d changes applied, %d blocked.\n",
				summary.RoomsScanned, summary.RoomsFixed, summary.RoomsSkipped,
				summary.ChangesApplied, summary.ChangesBlocked)
			if summary.SummaryPath != "" {
				fmt.Fprintf(out, "Run summary written to %s\n", summary.SummaryPath)
			}
			if summary.Mode != "apply" {
				fmt.Fprintln(out, "Dry run: no changes were written. Re-run with --apply.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Write fixes back to the rooms table (default dry-run)")
	cmd.Flags().StringVar(&roomFilter, "rooms", "", "Only repair rooms whose canonical id matches this pattern")
	cmd.Flags().StringVar(&scan, "scan", "", "Scan budget: fast, normal, or deep")
	cmd.Flags().StringVar(&governance, "governance", "", "Governance mode: auto, assisted, or strict")
	return cmd
}

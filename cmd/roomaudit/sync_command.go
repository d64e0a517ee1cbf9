package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"roomaudit/internal/reconcile"
	"roomaudit/internal/report"
	"roomaudit/internal/roomfs"
	"roomaudit/internal/store"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile rooms across filesystem, database, and registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			repo, err := ctx.roomRepository()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			// A broken database degrades to a skipped source, not a failure.
			var st *store.Store
			if opened, openErr := ctx.openStore(); openErr == nil {
				st = opened
				defer st.Close()
			} else {
				fmt.Fprintln(out, renderStatusLine("database", statusWarn, openErr.Error(), colorize))
			}

			snap, err := reconcile.LoadAll(cmd.Context(), repo, st, cfg.Paths.RegistryPath)
			if err != nil {
				return fmt.Errorf("load sources: %w", err)
			}

			physical, err := roomfs.ListAudioFiles(cfg.Paths.AudioDir)
			if err != nil {
				return fmt.Errorf("list audio dir: %w", err)
			}

			rep := &report.Sync{
				Diffs:        reconcile.Diff(snap),
				MissingAudio: reconcile.CheckAudioExists(snap, physical),
				Skipped:      snap.Skipped,
			}

			for _, line := range renderSectionHeader("room sync", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("filesystem rooms", statusInfo, fmt.Sprintf("%d", len(snap.Filesystem)), colorize))
			fmt.Fprintln(out, renderStatusLine("database rooms", statusInfo, fmt.Sprintf("%d", len(snap.Database)), colorize))
			fmt.Fprintln(out, renderStatusLine("registry rooms", statusInfo, fmt.Sprintf("%d", len(snap.Registry)), colorize))
			fmt.Fprintln(out, renderStatusLine("audio files", statusInfo, fmt.Sprintf("%d", len(physical)), colorize))
			fmt.Fprintln(out)
			fmt.Fprint(out, rep.Render())

			if rep.ExitCode() != report.ExitOK {
				return fmt.Errorf("sync audit failed: %d issues", rep.IssueCount())
			}
			return nil
		},
	}
}

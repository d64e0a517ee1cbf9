package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"roomaudit/internal/registry"
	"roomaudit/internal/roomdoc"
)

func newRegistryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Room registry manifest operations",
	}
	cmd.AddCommand(newRegistryGenerateCommand(ctx))
	return cmd
}

func newRegistryGenerateCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Regenerate the registry manifest from the data directory",
		Long: "generate scans the data directory and rewrites the registry manifest. " +
			"Every scannable room is registered; rooms with unknown tiers or duplicate " +
			"ids produce warnings instead of being dropped silently.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			repo, err := ctx.roomRepository()
			if err != nil {
				return err
			}

			rooms, _, err := repo.Rooms()
			if err != nil {
				return fmt.Errorf("scan data dir: %w", err)
			}

			sources := make([]registry.SourceRoom, 0, len(rooms))
			for _, room := range rooms {
				tier, _ := roomdoc.StringField(room.Doc, "tier")
				sources = append(sources, registry.SourceRoom{
					ID:   room.ID,
					Tier: tier,
					Rel:  room.File.Rel,
				})
			}

			result := registry.Generate(sources)

			target := output
			if target == "" {
				target = cfg.Paths.RegistryPath
			}
			if err := registry.Write(target, result.Entries); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Registry Generate", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Rooms registered", statusOK, fmt.Sprintf("%d", len(result.Entries)), colorize))
			fmt.Fprintln(out, renderStatusLine("Manifest", statusInfo, target, colorize))
			if len(result.Warnings) > 0 {
				fmt.Fprintln(out, renderStatusLine("Warnings", statusWarn, fmt.Sprintf("%d", len(result.Warnings)), colorize))
				for _, warning := range result.Warnings {
					fmt.Fprintf(out, "  - %s\n", warning)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the manifest to this path instead of the configured registry path")
	return cmd
}

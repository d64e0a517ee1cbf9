package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"roomaudit/internal/roomdoc"
	"roomaudit/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load filesystem rooms into the rooms table",
		Long: "import upserts every parseable room JSON file into the sqlite rooms " +
			"table, deriving tier, slug, and the entries column from the document. " +
			"Invalid files are counted and skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := ctx.roomRepository()
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			rooms, stats, err := repo.Rooms()
			if err != nil {
				return fmt.Errorf("scan data dir: %w", err)
			}

			var inserted, updated int
			for _, room := range rooms {
				rawJSON, err := json.Marshal(room.Doc)
				if err != nil {
					return fmt.Errorf("marshal room %s: %w", room.ID, err)
				}
				entries := roomdoc.AsArray(room.Doc["entries"])
				if entries == nil {
					entries = []any{}
				}
				entriesJSON, err := json.Marshal(entries)
				if err != nil {
					return fmt.Errorf("marshal entries for %s: %w", room.ID, err)
				}

				slug, _ := roomdoc.StringField(room.Doc, "slug")
				tier, _ := roomdoc.StringField(room.Doc, "tier")
				domain, _ := roomdoc.StringField(room.Doc, "domain")

				id := roomdoc.CanonicalID(room.ID)
				_, err = st.Get(cmd.Context(), id)
				switch {
				case errors.Is(err, store.ErrNotFound):
					inserted++
				case err != nil:
					return fmt.Errorf("look up room %s: %w", id, err)
				default:
					updated++
				}

				if err := st.Upsert(cmd.Context(), &store.Room{
					ID:          id,
					Slug:        slug,
					Tier:        tier,
					Domain:      domain,
					EntriesJSON: string(entriesJSON),
					RawJSON:     string(rawJSON),
				}); err != nil {
					return fmt.Errorf("upsert room %s: %w", id, err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Inserted", "Updated", "Invalid (skipped)", "Excluded"},
				[][]string{{
					fmt.Sprintf("%d", inserted),
					fmt.Sprintf("%d", updated),
					fmt.Sprintf("%d", stats.Invalid),
					fmt.Sprintf("%d", stats.Excluded),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}

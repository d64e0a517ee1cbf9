package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"roomaudit/internal/registry"
	"roomaudit/internal/roomdoc"
	"roomaudit/internal/roomfs"
	"roomaudit/internal/store"
)

// Source identifies which catalog a RoomInfo came from.
type Source string

const (
	SourceFilesystem Source = "filesystem"
	SourceDatabase   Source = "database"
	SourceRegistry   Source = "registry"
)

// RoomInfo is the common shape every source is normalized to before diffing.
type RoomInfo struct {
	// ID is the canonical id used for cross-source matching.
	ID string
	// RawID is the id exactly as the source spelled it.
	RawID  string
	Slug   string
	Tier   string
	Source Source
	// Audio holds normalized audio filenames referenced by the room's entries.
	Audio map[string]struct{}
	// EntryCount is valid only when HasEntries is true; the registry
	// carries no entry data.
	EntryCount int
	HasEntries bool
}

// Snapshot holds all three normalized sources plus notes about any source
// that could not be loaded.
type Snapshot struct {
	Filesystem map[string]RoomInfo
	Database   map[string]RoomInfo
	Registry   map[string]RoomInfo
	// Skipped lists sources that degraded to empty, with the reason.
	Skipped []string
}

func audioSet(entries []map[string]any) map[string]struct{} {
	out := make(map[string]struct{})
	for _, entry := range entries {
		if name, ok := roomdoc.AudioFilename(entry); ok && name != "" {
			out[roomdoc.NormalizeAudioFilename(name)] = struct{}{}
		}
	}
	return out
}

// LoadFilesystem normalizes every room in the JSON tree.
func LoadFilesystem(repo *roomfs.Repository) (map[string]RoomInfo, error) {
	rooms, _, err := repo.Rooms()
	if err != nil {
		return nil, fmt.Errorf("scan data dir: %w", err)
	}

	out := make(map[string]RoomInfo, len(rooms))
	for _, room := range rooms {
		slug, _ := roomdoc.StringField(room.Doc, "slug")
		tier, _ := roomdoc.StringField(room.Doc, "tier")
		entries := roomdoc.ExtractEntries(room.Doc)
		out[roomdoc.CanonicalID(room.ID)] = RoomInfo{
			ID:         roomdoc.CanonicalID(room.ID),
			RawID:      room.ID,
			Slug:       slug,
			Tier:       tier,
			Source:     SourceFilesystem,
			Audio:      audioSet(entries),
			EntryCount: len(entries),
			HasEntries: true,
		}
	}
	return out, nil
}

// LoadDatabase normalizes every row in the rooms table. A nil store means
// the database is not configured; the loader degrades to an empty map and
// reports why.
func LoadDatabase(ctx context.Context, st *store.Store) (map[string]RoomInfo, string, error) {
	if st == nil {
		return map[string]RoomInfo{}, "database: no store configured", nil
	}

	rows, err := st.List(ctx)
	if err != nil {
		return map[string]RoomInfo{}, fmt.Sprintf("database: %v", err), nil
	}

	out := make(map[string]RoomInfo, len(rows))
	for _, row := range rows {
		var rawEntries []any
		if err := json.Unmarshal([]byte(row.EntriesJSON), &rawEntries); err != nil {
			rawEntries = nil
		}
		entries := make([]map[string]any, 0, len(rawEntries))
		for _, item := range rawEntries {
			if obj := roomdoc.AsObject(item); obj != nil {
				entries = append(entries, obj)
			}
		}
		out[roomdoc.CanonicalID(row.ID)] = RoomInfo{
			ID:         roomdoc.CanonicalID(row.ID),
			RawID:      row.ID,
			Slug:       row.Slug,
			Tier:       row.Tier,
			Source:     SourceDatabase,
			Audio:      audioSet(entries),
			EntryCount: len(entries),
			HasEntries: true,
		}
	}
	return out, "", nil
}

// LoadRegistry normalizes the manifest. Identity and tier only.
func LoadRegistry(path string) (map[string]RoomInfo, string) {
	entries, ok := registry.Load(path)
	note := ""
	if !ok {
		note = fmt.Sprintf("registry: manifest %s missing or unreadable", path)
	}

	out := make(map[string]RoomInfo, len(entries))
	for id, entry := range entries {
		out[roomdoc.CanonicalID(id)] = RoomInfo{
			ID:     roomdoc.CanonicalID(id),
			RawID:  id,
			Slug:   entry.Slug,
			Tier:   entry.Tier,
			Source: SourceRegistry,
		}
	}
	return out, note
}

// LoadAll loads the three sources concurrently.
func LoadAll(ctx context.Context, repo *roomfs.Repository, st *store.Store, registryPath string) (*Snapshot, error) {
	snap := &Snapshot{}
	var dbNote, regNote string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fs, err := LoadFilesystem(repo)
		if err != nil {
			return err
		}
		snap.Filesystem = fs
		return nil
	})
	g.Go(func() error {
		db, note, err := LoadDatabase(gctx, st)
		if err != nil {
			return err
		}
		snap.Database = db
		dbNote = note
		return nil
	})
	g.Go(func() error {
		snap.Registry, regNote = LoadRegistry(registryPath)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if dbNote != "" {
		snap.Skipped = append(snap.Skipped, dbNote)
	}
	if regNote != "" {
		snap.Skipped = append(snap.Skipped, regNote)
	}
	sort.Strings(snap.Skipped)
	return snap, nil
}

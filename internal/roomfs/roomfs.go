// Package roomfs is the filesystem collaborator: it walks a data directory
// of room JSON files and hands parsed documents to the audit tools.
//
// The listing is memoized in an explicit Repository value with a manual
// Invalidate method, replacing the lazy module-global caching the scanners
// historically relied on. Non-JSON-parseable files are skipped and counted,
// never propagated as errors; known manifest/config filenames are excluded
// by denylist.
package roomfs

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"roomaudit/internal/roomdoc"
)

// File is one parsed JSON file under the data directory.
type File struct {
	// Path is absolute; Rel is relative to the data dir for report output.
	Path string
	Rel  string
	// Doc is the parsed JSON value (object or array).
	Doc any
}

// Room is a parsed file that passed the room shape check.
type Room struct {
	File
	ID  string
	Doc roomdoc.Document
}

// Stats summarizes one scan pass.
type Stats struct {
	// Scanned counts JSON files visited, excluded ones included.
	Scanned int
	// Excluded counts denylisted filenames.
	Excluded int
	// Invalid counts files that failed to parse (orphans).
	Invalid int
	// InvalidFiles lists the orphans, relative paths.
	InvalidFiles []string
}

// Excluder reports whether a base filename is on the non-room denylist.
type Excluder interface {
	IsExcludedFile(base string) bool
}

// Repository lists and parses the data directory on demand, memoizing one
// result until Invalidate is called.
type Repository struct {
	dataDir  string
	excluder Excluder

	mu     sync.Mutex
	loaded bool
	files  []File
	stats  Stats
}

// NewRepository builds a repository over dataDir. excluder may be nil, in
// which case no filenames are excluded.
func NewRepository(dataDir string, excluder Excluder) *Repository {
	return &Repository{dataDir: dataDir, excluder: excluder}
}

// DataDir returns the scanned root.
func (r *Repository) DataDir() string {
	return r.dataDir
}

// Invalidate drops the memoized listing so the next call rescans.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.files = nil
	r.stats = Stats{}
}

// Files returns every parseable JSON document under the data directory.
// The first call scans; later calls return the memoized result.
func (r *Repository) Files() ([]File, Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return r.files, r.stats, nil
	}

	files, stats, err := r.scan()
	if err != nil {
		return nil, Stats{}, err
	}
	r.files = files
	r.stats = stats
	r.loaded = true
	return files, stats, nil
}

// Rooms returns the subset of Files that look like room documents. Files
// holding an array are unwrapped element-wise so list exports contribute
// their rooms individually.
func (r *Repository) Rooms() ([]Room, Stats, error) {
	files, stats, err := r.Files()
	if err != nil {
		return nil, Stats{}, err
	}

	var rooms []Room
	for _, file := range files {
		candidates := []any{file.Doc}
		if arr := roomdoc.AsArray(file.Doc); arr != nil {
			candidates = arr
		}
		for _, candidate := range candidates {
			if !roomdoc.IsRoom(candidate) {
				continue
			}
			doc := roomdoc.AsObject(candidate)
			id := roomdoc.RoomID(doc)
			if id == "" {
				id = strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
			}
			rooms = append(rooms, Room{File: file, ID: id, Doc: doc})
		}
	}
	return rooms, stats, nil
}

func (r *Repository) scan() ([]File, Stats, error) {
	var files []File
	var stats Stats

	if _, err := os.Stat(r.dataDir); err != nil {
		if os.IsNotExist(err) {
			return nil, Stats{}, fmt.Errorf("data directory missing: %s", r.dataDir)
		}
		return nil, Stats{}, fmt.Errorf("stat data directory: %w", err)
	}

	walkErr := filepath.WalkDir(r.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".json") {
			return nil
		}
		stats.Scanned++

		rel, relErr := filepath.Rel(r.dataDir, path)
		if relErr != nil {
			rel = path
		}

		if r.excluder != nil && r.excluder.IsExcludedFile(d.Name()) {
			stats.Excluded++
			return nil
		}

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			stats.Invalid++
			stats.InvalidFiles = append(stats.InvalidFiles, rel)
			return nil
		}
		var doc any
		if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
			stats.Invalid++
			stats.InvalidFiles = append(stats.InvalidFiles, rel)
			return nil
		}

		files = append(files, File{Path: path, Rel: rel, Doc: doc})
		return nil
	})
	if walkErr != nil {
		return nil, Stats{}, fmt.Errorf("walk data directory: %w", walkErr)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, stats, nil
}

// ListAudioFiles returns the base names of every media file under dir,
// lowercased for case-insensitive comparison. A missing directory yields an
// empty set, not an error: audits degrade to reporting every reference as
// missing.
func ListAudioFiles(dir string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if dir == "" {
		return out, nil
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("stat audio directory: %w", err)
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		out[strings.ToLower(filepath.Base(path))] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk audio directory: %w", err)
	}
	return out, nil
}

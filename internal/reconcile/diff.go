package reconcile

import (
	"sort"
	"strings"
)

// RoomDiff is the cross-source comparison for one canonical room id.
type RoomDiff struct {
	ID string

	InFilesystem bool
	InDatabase   bool
	InRegistry   bool

	// AudioOnlyFilesystem and AudioOnlyDatabase are the two halves of the
	// symmetric difference of the normalized audio sets. Populated only
	// when the room exists in both sources.
	AudioOnlyFilesystem []string
	AudioOnlyDatabase   []string

	EntryCountFilesystem int
	EntryCountDatabase   int
	EntryCountMismatch   bool
}

// Clean reports whether the room is present everywhere and consistent.
func (d RoomDiff) Clean() bool {
	return d.InFilesystem && d.InDatabase && d.InRegistry &&
		len(d.AudioOnlyFilesystem) == 0 && len(d.AudioOnlyDatabase) == 0 &&
		!d.EntryCountMismatch
}

func setDifference(a, b map[string]struct{}) []string {
	var out []string
	for name := range a {
		if _, ok := b[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Diff compares the snapshot's sources per room id across the union of all
// source keys. Results are ordered by id.
func Diff(snap *Snapshot) []RoomDiff {
	ids := make(map[string]struct{})
	for id := range snap.Filesystem {
		ids[id] = struct{}{}
	}
	for id := range snap.Database {
		ids[id] = struct{}{}
	}
	for id := range snap.Registry {
		ids[id] = struct{}{}
	}

	ordered := make([]string, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	out := make([]RoomDiff, 0, len(ordered))
	for _, id := range ordered {
		fs, inFS := snap.Filesystem[id]
		db, inDB := snap.Database[id]
		_, inReg := snap.Registry[id]

		d := RoomDiff{
			ID:           id,
			InFilesystem: inFS,
			InDatabase:   inDB,
			InRegistry:   inReg,
		}
		if inFS && inDB {
			d.AudioOnlyFilesystem = setDifference(fs.Audio, db.Audio)
			d.AudioOnlyDatabase = setDifference(db.Audio, fs.Audio)
			if fs.HasEntries && db.HasEntries && fs.EntryCount != db.EntryCount {
				d.EntryCountFilesystem = fs.EntryCount
				d.EntryCountDatabase = db.EntryCount
				d.EntryCountMismatch = true
			}
		}
		out = append(out, d)
	}
	return out
}

// MissingAudio is one referenced-but-absent media file.
type MissingAudio struct {
	RoomID   string
	Source   Source
	Filename string
}

// CheckAudioExists flags audio references whose normalized filename has no
// physical counterpart. physical maps lowercased base names of the media
// files actually on disk.
func CheckAudioExists(snap *Snapshot, physical map[string]struct{}) []MissingAudio {
	var out []MissingAudio
	collect := func(rooms map[string]RoomInfo) {
		ids := make([]string, 0, len(rooms))
		for id := range rooms {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			info := rooms[id]
			names := make([]string, 0, len(info.Audio))
			for name := range info.Audio {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if _, ok := physical[strings.ToLower(name)]; !ok {
					out = append(out, MissingAudio{RoomID: id, Source: info.Source, Filename: name})
				}
			}
		}
	}
	collect(snap.Filesystem)
	collect(snap.Database)
	return out
}

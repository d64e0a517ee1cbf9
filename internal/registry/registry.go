// Package registry reads and regenerates the static room manifest.
//
// The manifest maps a canonical room id to the real JSON filename serving
// it. It is a routing artifact only: the reconciler uses it for identity
// and tier cross-checks, never for content. Hand-maintained copies often
// carry comments and trailing commas, so the loader accepts JSONC.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"

	"roomaudit/internal/roomdoc"
)

// Entry is one manifest row.
type Entry struct {
	ID   string `json:"id"`
	Slug string `json:"slug,omitempty"`
	Tier string `json:"tier,omitempty"`
	// Path is the data-dir-relative filename serving this room.
	Path string `json:"path,omitempty"`
}

// Load reads a manifest file. The three historical shapes are accepted: a
// bare array of entries, an object with a "rooms" array, or an id-keyed
// object. A missing or unreadable manifest returns an empty map and ok =
// false so audits can degrade and report the source as skipped.
func Load(path string) (map[string]Entry, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return map[string]Entry{}, false
	}
	return Parse(raw)
}

// Parse decodes manifest bytes. See Load for the accepted shapes.
func Parse(raw []byte) (map[string]Entry, bool) {
	clean := jsonc.ToJSON(raw)

	var doc any
	if err := json.Unmarshal(clean, &doc); err != nil {
		return map[string]Entry{}, false
	}

	out := make(map[string]Entry)

	addObject := func(obj map[string]any, fallbackID string) {
		id, _ := roomdoc.StringField(obj, "id")
		slug, _ := roomdoc.StringField(obj, "slug")
		if id == "" {
			id = slug
		}
		if id == "" {
			id = fallbackID
		}
		if id == "" {
			return
		}
		tier, _ := roomdoc.StringField(obj, "tier")
		path, _ := roomdoc.StringField(obj, "path")
		if path == "" {
			path, _ = roomdoc.StringField(obj, "file")
		}
		out[id] = Entry{ID: id, Slug: slug, Tier: tier, Path: path}
	}

	switch v := doc.(type) {
	case []any:
		for _, item := range v {
			if obj := roomdoc.AsObject(item); obj != nil {
				addObject(obj, "")
			}
		}
	case map[string]any:
		if rooms := roomdoc.AsArray(v["rooms"]); rooms != nil {
			for _, item := range rooms {
				if obj := roomdoc.AsObject(item); obj != nil {
					addObject(obj, "")
				}
			}
			break
		}
		// id-keyed object: values are entries or plain path strings
		for key, value := range v {
			if obj := roomdoc.AsObject(value); obj != nil {
				addObject(obj, key)
				continue
			}
			if path, ok := roomdoc.AsString(value); ok {
				out[key] = Entry{ID: key, Path: path}
			}
		}
	default:
		return map[string]Entry{}, false
	}

	return out, true
}

var tierMarker = regexp.MustCompile(`(?:^|_)(free|vip[1-9]|vip3ii|kids_[1-3])(?:_|$)`)

// InferTier extracts an explicit tier marker from a canonical room id.
// Without a marker it returns "" rather than guessing: defaulting unknown
// rooms to free has shipped paywall bugs before.
func InferTier(id string) string {
	match := tierMarker.FindStringSubmatch(strings.ToLower(id))
	if match == nil {
		return ""
	}
	return match[1]
}

// GenerateResult reports one regeneration pass.
type GenerateResult struct {
	Entries  []Entry
	Warnings []string
}

// SourceRoom is the minimal room view generation needs.
type SourceRoom struct {
	ID   string
	Tier string
	// Rel is the data-dir-relative filename.
	Rel string
}

// Generate rebuilds the manifest from scanned rooms. Register first, warn
// later: no room is rejected. Ids are canonicalized to snake_case; tier is
// taken from the document when declared, else inferred from an explicit id
// marker, else left empty with a warning.
func Generate(rooms []SourceRoom) GenerateResult {
	var result GenerateResult
	seen := make(map[string]string)

	for _, room := range rooms {
		id := roomdoc.CanonicalID(room.ID)
		if id == "" {
			id = roomdoc.CanonicalID(strings.TrimSuffix(room.Rel, ".json"))
		}
		if id == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: no usable id, skipped", room.Rel))
			continue
		}
		if prior, dup := seen[id]; dup {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: duplicate canonical id %q (already from %s)", room.Rel, id, prior))
			continue
		}
		seen[id] = room.Rel

		tier := strings.TrimSpace(room.Tier)
		if tier == "" {
			tier = InferTier(id)
			if tier == "" {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: tier unknown (no explicit tier, no id marker)", room.Rel))
			}
		}

		result.Entries = append(result.Entries, Entry{
			ID:   id,
			Slug: id,
			Tier: tier,
			Path: room.Rel,
		})
	}

	sort.Slice(result.Entries, func(i, j int) bool { return result.Entries[i].ID < result.Entries[j].ID })
	return result
}

// Write serializes entries to path as a pretty-printed manifest.
func Write(path string, entries []Entry) error {
	payload := struct {
		Rooms []Entry `json:"rooms"`
	}{Rooms: entries}

	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

package roomdoc_test

import (
	"encoding/json"
	"testing"

	"roomaudit/internal/roomdoc"
)

func parseDoc(t *testing.T, raw string) roomdoc.Document {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestExtractEntriesClassicPath(t *testing.T) {
	doc := parseDoc(t, `{
		"id": "calm_room",
		"entries": [
			{"slug": "breathe", "copy": {"en": "Breathe in.", "vi": "Hit vao."}},
			{"slug": "hold", "copy": {"en": "Hold.", "vi": "Giu."}}
		]
	}`)

	entries := roomdoc.ExtractEntries(doc)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if slug, _ := roomdoc.StringField(entries[0], "slug"); slug != "breathe" {
		t.Fatalf("expected first entry breathe, got %q", slug)
	}
}

func TestExtractEntriesDeepScanReturnsLeavesOnly(t *testing.T) {
	doc := parseDoc(t, `{
		"id": "nested_room",
		"content": {
			"sections": [
				{
					"title": {"en": "Section One"},
					"items": [
						{"slug": "leaf-a", "copy": {"en": "A"}, "audio": "a.mp3"},
						{"slug": "leaf-b", "copy": {"en": "B"}, "audio": "b.mp3"}
					]
				},
				{
					"title": {"en": "Section Two"},
					"items": [
						{"slug": "leaf-c", "copy": {"en": "C"}, "keywords_en": ["c"]}
					]
				}
			]
		}
	}`)

	entries := roomdoc.ExtractEntries(doc)
	if len(entries) != 3 {
		t.Fatalf("expected exactly the 3 leaf items, got %d", len(entries))
	}
	got := make(map[string]bool)
	for _, e := range entries {
		slug, _ := roomdoc.StringField(e, "slug")
		got[slug] = true
	}
	for _, want := range []string{"leaf-a", "leaf-b", "leaf-c"} {
		if !got[want] {
			t.Fatalf("missing leaf %q in %v", want, got)
		}
	}
}

func TestExtractEntriesExcludesRootAndMeta(t *testing.T) {
	// The root itself satisfies the entry heuristic (id + keywords) but must
	// never be returned; _meta subtrees must never be scanned.
	doc := parseDoc(t, `{
		"id": "root_room",
		"keywords_en": ["calm"],
		"audio": "room.mp3",
		"_meta": {
			"snapshot": {"slug": "ghost", "copy": {"en": "old"}, "audio": "ghost.mp3"}
		},
		"extra": {"slug": "real", "copy": {"en": "text"}, "audio": "real.mp3"}
	}`)

	entries := roomdoc.ExtractEntries(doc)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if slug, _ := roomdoc.StringField(entries[0], "slug"); slug != "real" {
		t.Fatalf("expected real, got %q", slug)
	}
}

func TestExtractEntriesDedupesBySlug(t *testing.T) {
	doc := parseDoc(t, `{
		"id": "dup_room",
		"sections": [
			{"items": [{"slug": "same", "copy": {"en": "one"}}]},
			{"items": [{"slug": "same", "copy": {"en": "two"}}]}
		]
	}`)

	entries := roomdoc.ExtractEntries(doc)
	if len(entries) != 1 {
		t.Fatalf("expected dedupe to 1 entry, got %d", len(entries))
	}
}

func TestExtractEntriesNonObjectInput(t *testing.T) {
	if got := roomdoc.ExtractEntries(nil); len(got) != 0 {
		t.Fatalf("expected empty result for nil input, got %d", len(got))
	}
}

func TestEntryLikeRejectsContainers(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{
			name: "leaf with text and audio",
			raw:  `{"copy": {"en": "hi"}, "audio": "hi.mp3"}`,
			want: true,
		},
		{
			name: "group with child items",
			raw:  `{"title": {"en": "Group"}, "items": [{"slug": "x", "copy": {"en": "y"}}]}`,
			want: false,
		},
		{
			name: "group with items under content",
			raw:  `{"slug": "wrap", "content": {"cards": [{"slug": "inner", "copy": {"en": "z"}}]}}`,
			want: false,
		},
		{
			name: "single signal only",
			raw:  `{"slug": "just-a-slug"}`,
			want: false,
		},
		{
			name: "suffixed text plus tags",
			raw:  `{"copy_en": "hello", "tags": ["greeting"]}`,
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var obj map[string]any
			if err := json.Unmarshal([]byte(tc.raw), &obj); err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := roomdoc.EntryLike(obj); got != tc.want {
				t.Fatalf("EntryLike = %v, want %v", got, tc.want)
			}
		})
	}
}

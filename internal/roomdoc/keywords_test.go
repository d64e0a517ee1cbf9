package roomdoc_test

import (
	"slices"
	"strings"
	"testing"

	"roomaudit/internal/roomdoc"
)

func TestNormalizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Calm  Down ", "calm down"},
		{"BÌNH\tAN", "bình an"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := roomdoc.NormalizeToken(tc.in); got != tc.want {
			t.Fatalf("NormalizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEntryKeywordsUnionsLegacyBuckets(t *testing.T) {
	entry := map[string]any{
		"slug":        "slow-breath",
		"title":       map[string]any{"en": "Slow Breath", "vi": "Thở chậm"},
		"keywords_en": []any{"Calm", "calm"},
		"keywords_vi": []any{"bình an"},
		"keywords":    []any{"legacy"},
		"tags":        []any{"shared-tag"},
	}

	kw := roomdoc.EntryKeywords(entry)

	for _, want := range []string{"calm", "legacy", "shared-tag", "slow-breath", "slow breath"} {
		if !slices.Contains(kw.EN, want) {
			t.Fatalf("EN missing %q: %v", want, kw.EN)
		}
	}
	// combined buckets and implicit slug/title land in both languages
	for _, want := range []string{"bình an", "legacy", "shared-tag", "slow-breath", "thở chậm"} {
		if !slices.Contains(kw.VI, want) {
			t.Fatalf("VI missing %q: %v", want, kw.VI)
		}
	}
	if slices.Contains(kw.EN, "") {
		t.Fatal("empty token leaked into EN set")
	}
}

func TestRoomKeywordsNestedFallback(t *testing.T) {
	room := map[string]any{
		"id":       "r1",
		"keywords": map[string]any{"en": []any{"Hope"}, "vi": []any{"Hy vọng"}},
	}
	kw := roomdoc.RoomKeywords(room)
	if !slices.Equal(kw.EN, []string{"hope"}) {
		t.Fatalf("EN = %v", kw.EN)
	}
	if !slices.Equal(kw.VI, []string{"hy vọng"}) {
		t.Fatalf("VI = %v", kw.VI)
	}

	// flat arrays take priority over the nested shape
	room["keywords_en"] = []any{"courage"}
	kw = roomdoc.RoomKeywords(room)
	if !slices.Equal(kw.EN, []string{"courage"}) {
		t.Fatalf("flat EN should win, got %v", kw.EN)
	}
}

func TestTextBlobCollectsLegacyFields(t *testing.T) {
	entry := map[string]any{
		"slug":        "anchor",
		"title_en":    "The Anchor",
		"copy":        map[string]any{"vi": "Neo lại"},
		"body_en":     "Stay with the breath",
		"description": "A grounding practice",
	}

	blob := roomdoc.TextBlob(entry)
	for _, want := range []string{"anchor", "the anchor", "neo lại", "stay with the breath", "a grounding practice"} {
		if !strings.Contains(blob, want) {
			t.Fatalf("blob missing %q: %q", want, blob)
		}
	}
}

package roomdoc_test

import (
	"testing"

	"roomaudit/internal/roomdoc"
)

func TestNormalizeAudioFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/public/audio/en/greeting.mp3", "greeting.mp3"},
		{"public/audio/vi/greeting.mp3", "greeting.mp3"},
		{"audio/calm.mp3", "calm.mp3"},
		{"greeting.mp3", "greeting.mp3"},
		{"  /Audio/EN/loud.mp3 ", "loud.mp3"},
		{"envelope.mp3", "envelope.mp3"}, // "en/" must not eat "envelope"
	}
	for _, tc := range cases {
		if got := roomdoc.NormalizeAudioFilename(tc.in); got != tc.want {
			t.Fatalf("NormalizeAudioFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAudioFilenameShapes(t *testing.T) {
	cases := []struct {
		name  string
		entry map[string]any
		want  string
		found bool
	}{
		{
			name:  "bare string",
			entry: map[string]any{"audio": "breathe.mp3"},
			want:  "breathe.mp3", found: true,
		},
		{
			name:  "folder prefixed",
			entry: map[string]any{"audio": "/public/audio/breathe.mp3"},
			want:  "breathe.mp3", found: true,
		},
		{
			name:  "language object en wins",
			entry: map[string]any{"audio": map[string]any{"vi": "vi.mp3", "en": "en.mp3"}},
			want:  "en.mp3", found: true,
		},
		{
			name:  "language object vi fallback",
			entry: map[string]any{"audio": map[string]any{"vi": "vi.mp3"}},
			want:  "vi.mp3", found: true,
		},
		{
			name:  "legacy audio_en key",
			entry: map[string]any{"audio_en": "legacy.mp3"},
			want:  "legacy.mp3", found: true,
		},
		{
			name:  "no audio",
			entry: map[string]any{"slug": "silent"},
			found: false,
		},
		{
			name:  "empty string",
			entry: map[string]any{"audio": "   "},
			found: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := roomdoc.AudioFilename(tc.entry)
			if found != tc.found {
				t.Fatalf("found = %v, want %v", found, tc.found)
			}
			if got != tc.want {
				t.Fatalf("filename = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestKebabCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Slow Breath", "slow-breath"},
		{"  Hít thở sâu  ", "hit-tho-sau"},
		{"already-kebab", "already-kebab"},
		{"!!!", "entry"},
		{"Mixed -- Separators__here", "mixed-separators-here"},
	}
	for _, tc := range cases {
		if got := roomdoc.KebabCase(tc.in); got != tc.want {
			t.Fatalf("KebabCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Calm-Room", "calm_room"},
		{"calm_room", "calm_room"},
		{"VIP2 Deep Rest", "vip2_deep_rest"},
		{"  spaced  ", "spaced"},
	}
	for _, tc := range cases {
		if got := roomdoc.CanonicalID(tc.in); got != tc.want {
			t.Fatalf("CanonicalID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

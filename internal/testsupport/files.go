package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteRoomFile marshals doc into the data dir under name and returns the
// absolute path. Parent directories are created as needed.
func WriteRoomFile(t testing.TB, dataDir, name string, doc any) string {
	t.Helper()

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("marshal room doc %s: %v", name, err)
	}
	path := filepath.Join(dataDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteRawFile writes literal content into the data dir, for fixtures that
// must stay malformed or hand-formatted.
func WriteRawFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// TouchAudio creates an empty audio asset with the given base name and
// returns its path.
func TouchAudio(t testing.TB, audioDir, name string) string {
	t.Helper()

	path := filepath.Join(audioDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte{0x49, 0x44, 0x33}, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

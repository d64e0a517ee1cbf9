package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"roomaudit/internal/config"
	"roomaudit/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "roomaudit", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	raw, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// cleanRoomDoc is a room that passes the coverage audit untouched.
func cleanRoomDoc(id string) map[string]any {
	return map[string]any{
		"id":          id,
		"slug":        id,
		"tier":        "free",
		"keywords_en": []string{"calm"},
		"keywords_vi": []string{"bình yên"},
		"title":       map[string]any{"en": "Calm Night", "vi": "Đêm bình yên"},
		"entries": []any{
			map[string]any{
				"slug":        "slow-breath",
				"title":       map[string]any{"en": "Slow breath", "vi": "Thở chậm"},
				"copy":        map[string]any{"en": "Breathe in slowly.", "vi": "Hít vào thật chậm."},
				"keywords_en": []string{"calm"},
				"keywords_vi": []string{"bình yên"},
			},
		},
	}
}

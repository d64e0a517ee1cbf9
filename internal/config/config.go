package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directory and file locations the tools operate on.
type Paths struct {
	// DataDir is the root of the room JSON tree.
	DataDir string `toml:"data_dir"`
	// AudioDir holds the physical audio assets referenced by entries.
	AudioDir string `toml:"audio_dir"`
	// RegistryPath is the static id-to-file manifest.
	RegistryPath string `toml:"registry_path"`
	// DatabasePath is the sqlite rooms database.
	DatabasePath string `toml:"database_path"`
	// LogDir receives log files, repair run summaries, and lock files.
	LogDir string `toml:"log_dir"`
}

// Checks contains configuration for the coverage and sync audits.
type Checks struct {
	// AllowEmptyRooms demotes zero-entry rooms from hard failure to
	// report-only. Also settable via ROOMAUDIT_ALLOW_EMPTY_ROOMS=1.
	AllowEmptyRooms bool `toml:"allow_empty_rooms"`
	// ExcludedFiles are data-dir filenames that are never rooms
	// (manifests, shared config). Matched by exact base name.
	ExcludedFiles []string `toml:"excluded_files"`
}

// Repair contains defaults for the auto-repair batch runner.
type Repair struct {
	// Governance gates how autonomously fixes are applied:
	// auto, assisted, or strict.
	Governance string `toml:"governance"`
	// Scan selects the per-run budget: fast, normal, or deep.
	Scan string `toml:"scan"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for roomaudit.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Checks  Checks  `toml:"checks"`
	Repair  Repair  `toml:"repair"`
	Logging Logging `toml:"logging"`
}

// SampleConfig returns the embedded sample configuration text.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves ~ and relative segments to an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/roomaudit/config.toml")
}

// Load locates, parses, and validates a configuration file. When no file
// exists the defaults are returned; the boolean reports whether a file was
// read. Path fields are expanded and absolute in the returned config.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnv layers environment toggles over the file values.
func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("ROOMAUDIT_ALLOW_EMPTY_ROOMS")); v == "1" {
		c.Checks.AllowEmptyRooms = true
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("roomaudit.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// normalize expands and absolutizes every path field.
func (c *Config) normalize() error {
	fields := []*string{
		&c.Paths.DataDir,
		&c.Paths.AudioDir,
		&c.Paths.RegistryPath,
		&c.Paths.DatabasePath,
		&c.Paths.LogDir,
	}
	for _, field := range fields {
		if *field == "" {
			continue
		}
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	c.Repair.Governance = strings.ToLower(strings.TrimSpace(c.Repair.Governance))
	c.Repair.Scan = strings.ToLower(strings.TrimSpace(c.Repair.Scan))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// EnsureDirectories creates the directories the tools write into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Paths.DatabasePath)}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// IsExcludedFile reports whether base is on the non-room denylist.
func (c *Config) IsExcludedFile(base string) bool {
	for _, name := range c.Checks.ExcludedFiles {
		if strings.EqualFold(name, base) {
			return true
		}
	}
	return false
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolutize %s: %w", path, err)
	}
	return abs, nil
}

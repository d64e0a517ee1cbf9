package testsupport

import (
	"path/filepath"
	"testing"

	"roomaudit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "rooms")
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.RegistryPath = filepath.Join(base, "rooms", "room-registry.json")
	cfgVal.Paths.DatabasePath = filepath.Join(base, "db", "rooms.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithGovernance sets the repair governance mode on the test config.
func WithGovernance(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Repair.Governance = mode
	}
}

// WithScan sets the repair scan budget on the test config.
func WithScan(scan string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Repair.Scan = scan
	}
}

// WithAllowEmptyRooms demotes zero-entry rooms to report-only on the test config.
func WithAllowEmptyRooms() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Checks.AllowEmptyRooms = true
	}
}

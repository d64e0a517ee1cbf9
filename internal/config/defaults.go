package config

const (
	defaultDataDir      = "public/data"
	defaultAudioDir     = "public/audio"
	defaultRegistryPath = "public/data/room-registry.json"
	defaultDatabasePath = "~/.local/share/roomaudit/rooms.db"
	defaultLogDir       = "~/.local/share/roomaudit/logs"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	// GovernanceAuto applies every fix, GovernanceAssisted applies only
	// content-preserving fixes, GovernanceStrict never writes.
	GovernanceAuto     = "auto"
	GovernanceAssisted = "assisted"
	GovernanceStrict   = "strict"

	// Scan budgets bound rooms and changes per repair run.
	ScanFast   = "fast"
	ScanNormal = "normal"
	ScanDeep   = "deep"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			AudioDir:     defaultAudioDir,
			RegistryPath: defaultRegistryPath,
			DatabasePath: defaultDatabasePath,
			LogDir:       defaultLogDir,
		},
		Checks: Checks{
			AllowEmptyRooms: false,
			ExcludedFiles: []string{
				"room-registry.json",
				"registry.json",
				"components.json",
				"tiers.json",
				"config.json",
				"settings.json",
				"manifest.json",
			},
		},
		Repair: Repair{
			Governance: GovernanceAssisted,
			Scan:       ScanNormal,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

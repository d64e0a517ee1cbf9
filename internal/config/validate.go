package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRepair(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.DatabasePath == "" {
		return errors.New("paths.database_path must be set")
	}
	return nil
}

func (c *Config) validateRepair() error {
	switch c.Repair.Governance {
	case GovernanceAuto, GovernanceAssisted, GovernanceStrict:
	default:
		return fmt.Errorf("repair.governance must be one of auto, assisted, strict (got %q)", c.Repair.Governance)
	}
	switch c.Repair.Scan {
	case ScanFast, ScanNormal, ScanDeep:
	default:
		return fmt.Errorf("repair.scan must be one of fast, normal, deep (got %q)", c.Repair.Scan)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	return nil
}

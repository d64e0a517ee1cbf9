// Package config loads and validates roomaudit configuration.
//
// Configuration comes from a TOML file (project-local roomaudit.toml or
// ~/.config/roomaudit/config.toml), with a small set of environment
// overrides for CI toggles. All path fields are expanded and absolute after
// Load. A sample config is embedded for `roomaudit config init`.
package config

// Package config loads, normalizes, and validates the TOML configuration
// shared by the dox daemon and CLI.
//
// Load resolves the config path (explicit flag, then ~/.config/dox/
// config.toml, then ./dox.toml), decodes it over the defaults, expands ~ in
// every path field, and validates the result. Other packages receive a
// fully-resolved *Config and never re-read the file.
package config

// Package config loads runtime configuration for the storymap CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the story API
//	-g string   base URL of the geocoding service
//	-k string   geocoding API key
//	-t int      HTTP timeout (seconds)
//	-d string   data directory for the local database and photos
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://story-api.dicoding.dev/v1",
//	  "geocode_base_url": "https://api.maptiler.com/geocoding",
//	  "geocode_api_key": "...",
//	  "http_timeout": "15s",
//	  "data_dir": "/home/user/.config/storymap",
//	  "log_level": "info"
//	}
//
// Primary API
//
//   - type Config                     — runtime settings of the CLI
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config

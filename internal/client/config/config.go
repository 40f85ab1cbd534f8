package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the storymap CLI.
//
// Fields:
//   - APIBaseURL: base URL of the remote story API.
//   - GeocodeBaseURL: base URL of the reverse-geocoding service.
//   - GeocodeAPIKey: API key sent with geocoding requests.
//   - HTTPTimeout: per-request timeout for outbound HTTP calls.
//   - DataDir: directory holding the local database and mirrored photos.
//   - LogLevel: minimum log level (debug, info, warn, error).
type Config struct {
	APIBaseURL     string
	GeocodeBaseURL string
	GeocodeAPIKey  string
	HTTPTimeout    time.Duration
	DataDir        string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults. The data directory
// defaults to a "storymap" folder under the user's config directory,
// falling back to the working directory when that cannot be resolved.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://story-api.dicoding.dev/v1"
	c.GeocodeBaseURL = "https://api.maptiler.com/geocoding"
	c.GeocodeAPIKey = ""
	c.HTTPTimeout = 15 * time.Second
	c.LogLevel = "info"

	if base, err := os.UserConfigDir(); err == nil {
		c.DataDir = filepath.Join(base, "storymap")
	} else {
		c.DataDir = "storymap"
	}
}

// DatabasePath is the location of the local SQLite database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "storymap.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

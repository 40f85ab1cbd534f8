package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://story-api.dicoding.dev/v1", c.APIBaseURL)
	assert.Equal(t, "https://api.maptiler.com/geocoding", c.GeocodeBaseURL)
	assert.Empty(t, c.GeocodeAPIKey)
	assert.Equal(t, 15*time.Second, c.HTTPTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.NotEmpty(t, c.DataDir)
}

func TestDatabasePath(t *testing.T) {
	c := Config{DataDir: filepath.Join("some", "dir")}
	assert.Equal(t, filepath.Join("some", "dir", "storymap.db"), c.DatabasePath())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "https://story-api.dicoding.dev/v1", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_OverlaysPresentFields(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"api_base_url": "https://stories.example/v2",
		"http_timeout": "30s",
	})
	os.Args = []string{"testbin", "-config", path}

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "https://stories.example/v2", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	// fields absent from the JSON keep their defaults
	assert.Equal(t, "https://api.maptiler.com/geocoding", cfg.GeocodeBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func Test_parseJson_NoConfigFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "https://story-api.dicoding.dev/v1", cfg.APIBaseURL)
}

func Test_parseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-a", "https://stories.example/v2", "-t", "5", "-l", "debug"}

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	assert.Equal(t, "https://stories.example/v2", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	// untouched flags keep their defaults
	assert.Equal(t, "https://api.maptiler.com/geocoding", cfg.GeocodeBaseURL)
}

package config

import (
	"flag"
	"os"
	"time"

	"github.com/aprilian/storymap/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the story API (default from Config)
//	-g string   base URL of the geocoding service (default from Config)
//	-k string   geocoding API key
//	-t int      HTTP timeout in seconds (default from Config)
//	-d string   data directory for the local database and photos
//	-l string   log level: debug, info, warn, error
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-k", "-t", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the story API")
	fs.StringVar(&cfg.GeocodeBaseURL, "g", cfg.GeocodeBaseURL, "base URL of the geocoding service")
	fs.StringVar(&cfg.GeocodeAPIKey, "k", cfg.GeocodeAPIKey, "geocoding API key")
	httpTimeout := fs.Int("t", int(cfg.HTTPTimeout.Seconds()), "HTTP timeout (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.HTTPTimeout = time.Duration(*httpTimeout) * time.Second
}

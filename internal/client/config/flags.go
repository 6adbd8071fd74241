package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/acadex/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend base URL
//	-i int      online check interval in seconds
//	-d string   path of the local SQLite database
//	-v          enable the start-up version check
//	-m string   address to serve Prometheus metrics on
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// loaders (-c/-config) do not break parsing.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d", "-v", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "backend base URL")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	fs.BoolVar(&cfg.VersionCheck, "v", cfg.VersionCheck, "check the app version on start")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}

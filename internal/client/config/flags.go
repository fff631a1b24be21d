package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/espm/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   identity server base URL
//	-d string   SQLite database path
//	-w int      expiry lead window in seconds
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// components (-c/-config) do not trip the parser. The lead window is only
// replaced when -w is given and must be positive.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-w", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.IdentityServerURL, "s", cfg.IdentityServerURL, "identity server base URL")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	leadWindow := fs.Int("w", int(cfg.ExpiryLeadWindow.Seconds()), "expiry lead window (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name != "w" {
			return
		}
		if *leadWindow <= 0 {
			panic(fmt.Errorf("-w must be a positive number of seconds, got %d", *leadWindow))
		}
		cfg.ExpiryLeadWindow = time.Duration(*leadWindow) * time.Second
	})
}

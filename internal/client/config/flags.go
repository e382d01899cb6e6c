package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database driver: sqlite or postgres
//	-s string   database DSN
//	-m string   identity mode: event or poll
//	-i int      identity poll interval in seconds
//	-n string   nonce mode: random or deterministic
//	-o string   export directory
//	-r string   Redis URL for the import lock
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-m", "-i", "-n", "-o", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDriver, "d", cfg.DatabaseDriver, "database driver (sqlite|postgres)")
	fs.StringVar(&cfg.DatabaseDSN, "s", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.IdentityMode, "m", cfg.IdentityMode, "identity mode (event|poll)")
	pollInterval := fs.Int("i", int(cfg.IdentityPollInterval.Seconds()), "identity poll interval (in seconds)")
	fs.StringVar(&cfg.NonceMode, "n", cfg.NonceMode, "nonce mode (random|deterministic)")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "export directory")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "redis URL for the import lock")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.IdentityPollInterval = time.Duration(*pollInterval) * time.Second
}

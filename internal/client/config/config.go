package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
)

// Identity watching modes.
const (
	IdentityEvent = "event"
	IdentityPoll  = "poll"
)

// Config holds runtime settings for the journal CLI.
//
// S3 settings are optional; with S3Bucket empty, exports go to ExportDir
// only. RedisURL is optional too; without it imports are serialized inside
// the process.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string

	IdentityMode         string
	IdentityPollInterval time.Duration

	NonceMode       string
	FoldDescription bool

	ProductName string
	ExportDir   string

	RedisURL string
	LockTTL  time.Duration

	LogLevel string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "gophjournal.db"
	c.IdentityMode = IdentityEvent
	c.IdentityPollInterval = 2 * time.Second
	c.NonceMode = string(cryptox.NonceRandom)
	c.ProductName = "gophjournal"
	c.ExportDir = "exports"
	c.LockTTL = 30 * time.Second
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
	c.S3Prefix = "exports"
}

// LoadConfig constructs a Config, applies defaults, then overlays the
// environment (including a .env file), JSON (if present) and command-line
// flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate rejects values the application cannot run with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	switch c.IdentityMode {
	case IdentityEvent:
	case IdentityPoll:
		if c.IdentityPollInterval <= 0 {
			return fmt.Errorf("identity poll interval must be positive")
		}
	default:
		return fmt.Errorf("unknown identity mode %q", c.IdentityMode)
	}
	if _, err := cryptox.ParseNonceMode(c.NonceMode); err != nil {
		return err
	}
	if c.ProductName == "" {
		return fmt.Errorf("product name is required")
	}
	if c.RedisURL != "" && c.LockTTL <= 0 {
		return fmt.Errorf("lock ttl must be positive")
	}
	return nil
}

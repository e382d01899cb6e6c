package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "GJ_"

// parseEnv overlays Config with GJ_* environment variables. A dotenv file
// named by -e/-env-file, or ./.env when present, is loaded first; variables
// already set in the process environment win over the file.
//
// Panics on malformed durations or booleans, like the other loaders.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	str := func(key string, dst *string) {
		if v := os.Getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := os.Getenv(envPrefix + key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(fmt.Errorf("invalid %s%s: %w", envPrefix, key, err))
			}
			*dst = d
		}
	}
	boolean := func(key string, dst *bool) {
		if v := os.Getenv(envPrefix + key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				panic(fmt.Errorf("invalid %s%s: %w", envPrefix, key, err))
			}
			*dst = b
		}
	}

	str("DB_DRIVER", &cfg.DatabaseDriver)
	str("DB_DSN", &cfg.DatabaseDSN)
	str("IDENTITY_MODE", &cfg.IdentityMode)
	dur("IDENTITY_POLL_INTERVAL", &cfg.IdentityPollInterval)
	str("NONCE_MODE", &cfg.NonceMode)
	boolean("FOLD_DESCRIPTION", &cfg.FoldDescription)
	str("PRODUCT_NAME", &cfg.ProductName)
	str("EXPORT_DIR", &cfg.ExportDir)
	str("REDIS_URL", &cfg.RedisURL)
	dur("LOCK_TTL", &cfg.LockTTL)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_REGION", &cfg.S3Region)
	str("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)
	str("S3_ACCESS_KEY", &cfg.S3AccessKey)
	str("S3_SECRET_KEY", &cfg.S3SecretKey)
	str("S3_PREFIX", &cfg.S3Prefix)
}

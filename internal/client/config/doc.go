// Package config loads runtime configuration for the journal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. GJ_* environment variables, after loading a dotenv file given with
//     -e/-env-file or ./.env (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "2s"
// or integer nanoseconds:
//
//	{
//	  "database_driver": "sqlite",
//	  "database_dsn": "gophjournal.db",
//	  "identity_mode": "poll",
//	  "identity_poll_interval": "2s",
//	  "nonce_mode": "random",
//	  "redis_url": "redis://localhost:6379/0",
//	  "lock_ttl": "30s",
//	  "s3_bucket": "journals"
//	}
package config

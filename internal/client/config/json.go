package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophjournal/internal/flagx"
	"github.com/dmitrijs2005/gophjournal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration, so they may be strings like "2s" or integer nanoseconds.
// Absent keys leave the current value alone.
type JsonConfig struct {
	DatabaseDriver       string         `json:"database_driver"`
	DatabaseDSN          string         `json:"database_dsn"`
	IdentityMode         string         `json:"identity_mode"`
	IdentityPollInterval timex.Duration `json:"identity_poll_interval"`
	NonceMode            string         `json:"nonce_mode"`
	FoldDescription      *bool          `json:"fold_description"`
	ProductName          string         `json:"product_name"`
	ExportDir            string         `json:"export_dir"`
	RedisURL             string         `json:"redis_url"`
	LockTTL              timex.Duration `json:"lock_ttl"`
	LogLevel             string         `json:"log_level"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3BaseEndpoint       string         `json:"s3_base_endpoint"`
	S3AccessKey          string         `json:"s3_access_key"`
	S3SecretKey          string         `json:"s3_secret_key"`
	S3Prefix             string         `json:"s3_prefix"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.DatabaseDriver, jc.DatabaseDriver)
	set(&cfg.DatabaseDSN, jc.DatabaseDSN)
	set(&cfg.IdentityMode, jc.IdentityMode)
	set(&cfg.NonceMode, jc.NonceMode)
	set(&cfg.ProductName, jc.ProductName)
	set(&cfg.ExportDir, jc.ExportDir)
	set(&cfg.RedisURL, jc.RedisURL)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.S3Bucket, jc.S3Bucket)
	set(&cfg.S3Region, jc.S3Region)
	set(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	set(&cfg.S3AccessKey, jc.S3AccessKey)
	set(&cfg.S3SecretKey, jc.S3SecretKey)
	set(&cfg.S3Prefix, jc.S3Prefix)

	if jc.IdentityPollInterval.Duration != 0 {
		cfg.IdentityPollInterval = jc.IdentityPollInterval.Duration
	}
	if jc.LockTTL.Duration != 0 {
		cfg.LockTTL = jc.LockTTL.Duration
	}
	if jc.FoldDescription != nil {
		cfg.FoldDescription = *jc.FoldDescription
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "gophjournal.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestParseJson_Overlay(t *testing.T) {
	p := writeConfigFile(t, `{
		"database_driver": "postgres",
		"identity_poll_interval": "10s",
		"lock_ttl": 5000000000,
		"fold_description": true,
		"s3_bucket": "journals",
		"s3_base_endpoint": "http://localhost:9000"
	}`)
	setArgs(t, "-config", p)

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 10*time.Second, cfg.IdentityPollInterval)
	assert.Equal(t, 5*time.Second, cfg.LockTTL)
	assert.True(t, cfg.FoldDescription)
	assert.Equal(t, "journals", cfg.S3Bucket)
	assert.Equal(t, "http://localhost:9000", cfg.S3BaseEndpoint)

	assert.Equal(t, "gophjournal.db", cfg.DatabaseDSN)
	assert.Equal(t, "us-east-1", cfg.S3Region)
}

func TestParseJson_FalseOverridesTrue(t *testing.T) {
	setArgs(t, "-c", writeConfigFile(t, `{"fold_description": false}`))

	cfg := Config{FoldDescription: true}
	parseJson(&cfg)

	assert.False(t, cfg.FoldDescription)
}

func TestParseJson_NoFileLeavesConfig(t *testing.T) {
	setArgs(t, "-d", "postgres")

	cfg := Config{DatabaseDSN: "mine.db", IdentityPollInterval: 42 * time.Second}
	parseJson(&cfg)

	assert.Equal(t, Config{DatabaseDSN: "mine.db", IdentityPollInterval: 42 * time.Second}, cfg)
}

func TestParseJson_Panics(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		setArgs(t, "-c", writeConfigFile(t, `{ "database_driver": `))
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("bad duration", func(t *testing.T) {
		setArgs(t, "-c", writeConfigFile(t, `{"lock_ttl": "forever"}`))
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file", func(t *testing.T) {
		setArgs(t, "-c", filepath.Join(t.TempDir(), "nope.json"))
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"NYAYA_ADDR":       ":9090",
		"KAFKA_BROKERS":    "k1:9092, k2:9092,",
		"COMPLIANCE_STORE": "postgres",
		"DATABASE_URL":     "postgres://localhost/nyaya",
		"REDIS_CACHE_TTL":  "2m",
		"LOG_LEVEL":        "  ",
	}
	cfg := Defaults()
	applyEnv(&cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, StorePostgres, cfg.Compliance.Store)
	assert.Equal(t, 2*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "info", cfg.Log.Level, "blank values keep the default")
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"postgres without url", func(c *Config) { c.Compliance.Store = StorePostgres }, false},
		{"unknown store", func(c *Config) { c.Compliance.Store = "sqlite" }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"kafka without outbox", func(c *Config) { c.Kafka.Brokers = []string{"k:9092"} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nyaya.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = ":7070"

[ledger]
digest = "blake2b"

[redis]
cache_ttl = "30s"
`), 0o600))
	t.Setenv("NYAYA_ADDR", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "blake2b", cfg.Ledger.Digest)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

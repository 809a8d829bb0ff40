package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/txgraph/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, warnings, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	def := config.Default()
	assert.Equal(t, def.DataDir, cfg.DataDir)
	assert.Equal(t, def.Store, cfg.Store)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
api_key: secret
data_dir: /tmp/graphs
rate_per_second: "2.5"
timeout: 5s
store: redis
redis:
  addr: redis:6379
  ttl: 1h
kafka:
  brokers: [k1:9092, k2:9092]
  topic: edges
bogus: 1
`)
	t.Setenv(config.EnvAPIKey, "")

	cfg, warnings, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "/tmp/graphs", cfg.DataDir)
	assert.Equal(t, 2.5, cfg.RatePerSecond)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, config.StoreRedis, cfg.Store)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "txgraph:", cfg.Redis.Prefix, "unset nested keys keep defaults")
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "edges", cfg.Kafka.Topic)
	assert.Equal(t, []string{`unknown config key "bogus"`}, warnings)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "api_key: from-file\n")
	t.Setenv(config.EnvAPIKey, "from-env")
	t.Setenv(config.EnvAPIURL, "http://localhost:9999")
	t.Setenv(config.EnvRedisAddr, "cache:6379")

	cfg, _, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, "http://localhost:9999", cfg.APIURL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, _, err := config.Load(writeConfig(t, "store: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "Defaults", mutate: func(*config.Config) {}},
		{name: "Memory Store", mutate: func(c *config.Config) { c.Store = config.StoreMemory }},
		{name: "Unknown Store", mutate: func(c *config.Config) { c.Store = "sqlite" }, wantErr: true},
		{name: "Redis Without Addr", mutate: func(c *config.Config) { c.Store = config.StoreRedis; c.Redis.Addr = "" }, wantErr: true},
		{name: "Empty Data Dir", mutate: func(c *config.Config) { c.DataDir = "" }, wantErr: true},
		{name: "Negative Rate", mutate: func(c *config.Config) { c.RatePerSecond = -1 }, wantErr: true},
		{name: "Kafka Without Brokers", mutate: func(c *config.Config) { c.Kafka.Topic = "t"; c.Kafka.Brokers = nil }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

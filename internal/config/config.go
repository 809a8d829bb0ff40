// Package config loads the optional txgraph.yaml file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "txgraph.yaml"

// Store backends.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Environment overrides.
const (
	EnvAPIKey    = "TXGRAPH_API_KEY"
	EnvAPIURL    = "TXGRAPH_API_URL"
	EnvRedisAddr = "TXGRAPH_REDIS_ADDR"
)

// Config is the process configuration.
type Config struct {
	APIKey        string        `mapstructure:"api_key"`
	APIURL        string        `mapstructure:"api_url"`
	Chain         string        `mapstructure:"chain"`
	DataDir       string        `mapstructure:"data_dir"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Store         string        `mapstructure:"store"`

	Redis  RedisConfig  `mapstructure:"redis"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Neo4j  Neo4jConfig  `mapstructure:"neo4j"`
	Serve  ServeConfig  `mapstructure:"serve"`
	Render RenderConfig `mapstructure:"render"`
}

// RedisConfig configures the redis record store.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// KafkaConfig configures the kafka edge sink. An empty Topic disables it.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Neo4jConfig configures the neo4j edge sink. An empty URI disables it.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// RenderConfig configures the Graphviz binary used by --render.
type RenderConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		APIURL:        "https://api.blockchair.com",
		Chain:         "bitcoin",
		DataDir:       "data",
		RatePerSecond: 1,
		Timeout:       30 * time.Second,
		Store:         StoreFile,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "txgraph:",
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
		Render: RenderConfig{
			Command: "dot",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error. Unknown keys are returned as warnings.
func Load(path string) (*Config, []string, error) {
	cfg := Default()
	var warnings []string

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		default:
			warnings, err = decode(data, cfg)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, warnings, nil
}

func decode(data []byte, cfg *Config) ([]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}

	var warnings []string
	for _, key := range md.Unused {
		warnings = append(warnings, fmt.Sprintf("unknown config key %q", key))
	}
	sort.Strings(warnings)
	return warnings, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis store requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want file, memory or redis)", c.Store)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("rate_per_second cannot be negative")
	}
	if c.Kafka.Topic != "" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.topic requires at least one broker")
	}
	return nil
}

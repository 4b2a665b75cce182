package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the pdbquery configuration.
type Config struct {
	PuppetDB PuppetDBConfig `mapstructure:"puppetdb"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// PuppetDBConfig holds connection settings for the target PuppetDB server.
type PuppetDBConfig struct {
	URL             string `mapstructure:"url"`
	Token           string `mapstructure:"token"`
	InsecureSkipTLS bool   `mapstructure:"insecure_skip_tls"`
}

// CacheConfig holds settings for the result cache in front of the client.
type CacheConfig struct {
	// Backend is "lru" (default, always available) or "redis".
	Backend string        `mapstructure:"backend"`
	Addr    string        `mapstructure:"addr"`
	TTL     time.Duration `mapstructure:"ttl"`
	Size    int           `mapstructure:"size"`
}

// Load loads configuration from pdbquery.yaml or pdbquery.yml over the
// built-in defaults; the PUPPETDB_URL/PUPPETDB_TOKEN environment variables,
// when set, override both.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("puppetdb.url", "http://localhost:8080")
	v.SetDefault("puppetdb.insecure_skip_tls", false)
	v.SetDefault("cache.backend", "lru")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.size", 256)

	v.SetConfigName("pdbquery")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if url := os.Getenv("PUPPETDB_URL"); url != "" {
		cfg.PuppetDB.URL = url
	}
	if token := os.Getenv("PUPPETDB_TOKEN"); token != "" {
		cfg.PuppetDB.Token = token
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.PuppetDB.URL == "" {
		return fmt.Errorf("puppetdb.url must not be empty")
	}
	if !strings.HasPrefix(cfg.PuppetDB.URL, "http://") && !strings.HasPrefix(cfg.PuppetDB.URL, "https://") {
		return fmt.Errorf("puppetdb.url must start with http:// or https://, got: %s", cfg.PuppetDB.URL)
	}
	switch cfg.Cache.Backend {
	case "lru", "redis":
	default:
		return fmt.Errorf("cache.backend must be 'lru' or 'redis', got: %s", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.Addr == "" {
		return fmt.Errorf("cache.addr must be set when cache.backend is 'redis'")
	}
	return nil
}

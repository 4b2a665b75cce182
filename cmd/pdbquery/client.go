package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bootc/pdbquery/internal/cache"
	"github.com/bootc/pdbquery/internal/client"
	"github.com/bootc/pdbquery/internal/config"
)

// buildClient wires the configured PuppetDB HTTP client behind the
// configured cache backend: LRU always available, Redis when configured.
func buildClient(cfg *config.Config, log *zap.Logger) (client.Client, error) {
	httpClient := client.NewHTTPClient(client.Config{
		BaseURL:         cfg.PuppetDB.URL,
		Token:           cfg.PuppetDB.Token,
		InsecureSkipTLS: cfg.PuppetDB.InsecureSkipTLS,
		Timeout:         30 * time.Second,
		MaxRetries:      2,
	}, log)

	backend, err := buildCacheBackend(cfg)
	if err != nil {
		return nil, err
	}

	return client.NewCachingClient(httpClient, backend, cfg.Cache.TTL), nil
}

func buildCacheBackend(cfg *config.Config) (cache.Cache, error) {
	cacheConfig := cache.Config{DefaultTTL: cfg.Cache.TTL, Prefix: "pdbquery:"}

	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(cache.RedisConfig{Addr: cfg.Cache.Addr, Config: cacheConfig})
	case "lru", "":
		return cache.NewLRUCache(cfg.Cache.Size, cacheConfig)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

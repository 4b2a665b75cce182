package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// LRUCache is an in-process, size-bounded cache. It is always available —
// unlike RedisCache, it needs no external server — and is the default
// backend when cache.backend is unset or "lru".
type LRUCache struct {
	cache  *lru.Cache
	config Config
}

type lruEntry struct {
	value      []byte
	expiration time.Time
}

// NewLRUCache creates an in-process cache holding at most size entries; a
// size of zero or less means 256.
func NewLRUCache(size int, config Config) (*LRUCache, error) {
	if size <= 0 {
		size = 256
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{cache: c, config: config}, nil
}

func (c *LRUCache) Get(ctx context.Context, key string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	fullKey := c.config.Prefix + key
	v, ok := c.cache.Get(fullKey)
	if !ok {
		return nil, ErrCacheMiss{Key: key}
	}

	entry := v.(lruEntry)
	if !entry.expiration.IsZero() && time.Now().After(entry.expiration) {
		c.cache.Remove(fullKey)
		return nil, ErrCacheMiss{Key: key}
	}
	return entry.value, nil
}

func (c *LRUCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}

	entry := lruEntry{value: value}
	if ttl > 0 {
		entry.expiration = time.Now().Add(ttl)
	}

	c.cache.Add(c.config.Prefix+key, entry)
	return nil
}

func (c *LRUCache) Delete(ctx context.Context, key string) error {
	c.cache.Remove(c.config.Prefix + key)
	return nil
}

func (c *LRUCache) Clear(ctx context.Context) error {
	c.cache.Purge()
	return nil
}

func (c *LRUCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if err == nil {
		return true, nil
	}
	if IsCacheMiss(err) {
		return false, nil
	}
	return false, err
}

func (c *LRUCache) Close() error {
	return nil
}

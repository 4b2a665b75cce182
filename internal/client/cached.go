package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/bootc/pdbquery/compiler/evaluator"
	"github.com/bootc/pdbquery/internal/cache"
)

// CachingClient memoizes (endpoint, query JSON) -> response in front of an
// inner Client, so repeated CLI invocations against the same inventory
// don't refetch every facts/fact_contents call. A cache miss or error
// always falls through to the inner Client.
type CachingClient struct {
	inner Client
	cache cache.Cache
	ttl   time.Duration
}

// NewCachingClient wraps inner with cache, using ttl for newly stored
// entries (0 defers to the cache's own default TTL).
func NewCachingClient(inner Client, c cache.Cache, ttl time.Duration) *CachingClient {
	return &CachingClient{inner: inner, cache: c, ttl: ttl}
}

func (c *CachingClient) Facts(ctx context.Context, query evaluator.Value) (json.RawMessage, error) {
	return c.queryCached(ctx, "facts", query, c.inner.Facts)
}

func (c *CachingClient) FactContents(ctx context.Context, query evaluator.Value) (json.RawMessage, error) {
	return c.queryCached(ctx, "fact_contents", query, c.inner.FactContents)
}

func (c *CachingClient) queryCached(ctx context.Context, endpoint string, query evaluator.Value, fetch func(context.Context, evaluator.Value) (json.RawMessage, error)) (json.RawMessage, error) {
	key, err := cacheKey(endpoint, query)
	if err != nil {
		return fetch(ctx, query)
	}

	if cached, err := c.cache.Get(ctx, key); err == nil {
		return json.RawMessage(cached), nil
	}

	body, err := fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	c.cache.Set(ctx, key, body, c.ttl)
	return body, nil
}

func cacheKey(endpoint string, query evaluator.Value) (string, error) {
	b, err := json.Marshal(query)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return endpoint + ":" + hex.EncodeToString(sum[:]), nil
}

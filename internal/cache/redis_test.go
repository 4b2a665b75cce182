package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCacheWithClient(client, DefaultConfig()), mr
}

func TestNewRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c, err := NewRedisCache(RedisConfig{Addr: mr.Addr(), Config: DefaultConfig()})
	require.NoError(t, err)
	defer c.Close()
}

func TestNewRedisCacheConnectionError(t *testing.T) {
	_, err := NewRedisCache(RedisConfig{Addr: "127.0.0.1:1", Config: DefaultConfig()})
	require.Error(t, err)
}

func TestRedisCacheSetAndGet(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "foo", []byte("bar"), time.Minute))

	v, err := c.Get(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, "bar", string(v))
}

func TestRedisCacheGetMiss(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.True(t, IsCacheMiss(err), "expected cache miss, got %v", err)
}

func TestRedisCacheDelete(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "foo", []byte("bar"), time.Minute))
	require.NoError(t, c.Delete(ctx, "foo"))

	_, err := c.Get(ctx, "foo")
	assert.True(t, IsCacheMiss(err), "expected cache miss after Delete, got %v", err)
}

func TestRedisCacheClear(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, c.Clear(ctx))

	okA, _ := c.Exists(ctx, "a")
	okB, _ := c.Exists(ctx, "b")
	assert.False(t, okA, "Exists(a) after Clear")
	assert.False(t, okB, "Exists(b) after Clear")
}

func TestRedisCacheExists(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	before, _ := c.Exists(ctx, "foo")
	assert.False(t, before, "Exists(foo) before Set")

	require.NoError(t, c.Set(ctx, "foo", []byte("bar"), time.Minute))

	after, _ := c.Exists(ctx, "foo")
	assert.True(t, after, "Exists(foo) after Set")
}

func TestRedisCacheTTLExpiration(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "foo", []byte("bar"), 100*time.Millisecond))

	_, err := c.Get(ctx, "foo")
	require.NoError(t, err, "Get before expiry")

	mr.FastForward(200 * time.Millisecond)

	_, err = c.Get(ctx, "foo")
	assert.True(t, IsCacheMiss(err), "expected cache miss after expiry, got %v", err)
}

func TestRedisCacheDefaultTTL(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "foo", []byte("bar"), 0))

	ttl := mr.TTL("pdbquery:foo")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, DefaultConfig().DefaultTTL)
}

func TestRedisCachePrefix(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "foo", []byte("bar"), time.Minute))

	assert.Contains(t, mr.Keys(), "pdbquery:foo")
}

func TestRedisCacheClose(t *testing.T) {
	c, _ := setupTestRedis(t)
	assert.NoError(t, c.Close())
}

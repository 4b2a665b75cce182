package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUGetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRUCache(8, DefaultConfig())
	require.NoError(t, err)

	_, err = c.Get(ctx, "missing")
	assert.True(t, IsCacheMiss(err), "expected cache miss, got %v", err)

	require.NoError(t, c.Set(ctx, "foo", []byte("bar"), time.Minute))

	v, err := c.Get(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, "bar", string(v))

	ok, _ := c.Exists(ctx, "foo")
	assert.True(t, ok)

	c.Delete(ctx, "foo")
	ok, _ = c.Exists(ctx, "foo")
	assert.False(t, ok, "Exists(foo) after Delete")
}

func TestLRUExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewLRUCache(8, DefaultConfig())

	c.Set(ctx, "foo", []byte("bar"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	_, err := c.Get(ctx, "foo")
	assert.True(t, IsCacheMiss(err), "expected cache miss after expiry, got %v", err)
}

func TestLRUClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewLRUCache(8, DefaultConfig())
	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)

	c.Clear(ctx)

	okA, _ := c.Exists(ctx, "a")
	okB, _ := c.Exists(ctx, "b")
	assert.False(t, okA, "Exists(a) after Clear")
	assert.False(t, okB, "Exists(b) after Clear")
}

func TestLRUEviction(t *testing.T) {
	ctx := context.Background()
	c, _ := NewLRUCache(1, DefaultConfig())

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)

	okA, _ := c.Exists(ctx, "a")
	okB, _ := c.Exists(ctx, "b")
	assert.False(t, okA, "expected a evicted once capacity 1 is exceeded")
	assert.True(t, okB, "expected b present")
}

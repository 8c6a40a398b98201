//go:build integration
// +build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dsn = "localhost:6379"
)

func TestCache(t *testing.T) {
	ctx := context.Background()
	cache, err := NewWithPrefix(Options{
		Addr:     dsn,
		Password: "", // no password set
		DB:       0,  // use default DB
	}, "integration:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	key1 := "GET http://test/res/1"
	val1 := `{"id":1}`
	key2 := "GET http://test/res/2"
	val2 := `{"id":2}`

	t.Run("set", func(t *testing.T) {
		assert.NoError(t, cache.Set(ctx, key1, val1))
	})

	t.Run("get", func(t *testing.T) {
		got, exists, err := cache.Get(ctx, key1)
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, val1, got)
	})

	t.Run("delete", func(t *testing.T) {
		assert.NoError(t, cache.Remove(ctx, key1))
		_, exists, err := cache.Get(ctx, key1)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("ttl", func(t *testing.T) {
		assert.NoError(t, cache.SetTTL(ctx, key1, val1, 2*time.Millisecond))
		time.Sleep(10 * time.Millisecond)
		_, exists, err := cache.Get(ctx, key1)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("purge keeps other namespaces", func(t *testing.T) {
		other, err := NewWithPrefix(Options{Addr: dsn}, "other:")
		require.NoError(t, err)
		defer func() { _ = other.Close() }()
		require.NoError(t, other.Set(ctx, key1, val1))

		assert.NoError(t, cache.Set(ctx, key1, val1))
		assert.NoError(t, cache.Set(ctx, key2, val2))
		assert.NoError(t, cache.Purge(ctx))

		_, exists, err := cache.Get(ctx, key1)
		assert.NoError(t, err)
		assert.False(t, exists)
		_, exists, err = cache.Get(ctx, key2)
		assert.NoError(t, err)
		assert.False(t, exists)
		_, exists, err = other.Get(ctx, key1)
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, other.Purge(ctx))
	})
}

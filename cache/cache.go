// Package cache defines the key value caches that back the persistent resource stores.
package cache

import (
	"context"
	"time"
)

// Cache is a key value cache.
type Cache interface {
	// Get a value based on a specific key. The call returns whether the key exists or not.
	Get(ctx context.Context, key string) (interface{}, bool, error)
	// Purge the cache.
	Purge(ctx context.Context) error
	// Remove the key from the cache.
	Remove(ctx context.Context, key string) error
	// Set the value for the specified key.
	Set(ctx context.Context, key string, value interface{}) error
}

// TTLCache interface adds support for expiring key value pairs.
type TTLCache interface {
	Cache
	// SetTTL sets the value of a specified key with a time to live.
	SetTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

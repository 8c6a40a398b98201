// Package redis contains a Redis backed cache that supports TTL. Keys are namespaced so that
// purging the cache leaves the rest of the database untouched.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/beatlabs/resource/cache"
	"github.com/beatlabs/resource/client/redis"
)

// DefaultPrefix namespaces the keys written by the cache.
const DefaultPrefix = "resource:"

var _ cache.TTLCache = &Cache{}

// Cache encapsulates a Redis-based caching mechanism.
type Cache struct {
	rdb    redis.Client
	prefix string
}

// Options exposes the struct from go-redis package.
type Options redis.Options

// New creates a cache on top of a new traced Redis client.
func New(opt Options) (*Cache, error) {
	return NewWithPrefix(opt, DefaultPrefix)
}

// NewWithPrefix creates a cache that namespaces its keys with the prefix.
func NewWithPrefix(opt Options, prefix string) (*Cache, error) {
	if prefix == "" {
		return nil, errors.New("prefix is empty")
	}
	return &Cache{rdb: redis.New(redis.Options(opt)), prefix: prefix}, nil
}

// Get executes a lookup and returns whether a key exists in the cache along with its value.
func (c *Cache) Get(ctx context.Context, key string) (interface{}, bool, error) {
	res, err := c.rdb.Do(ctx, "get", c.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) { // cache miss
			return nil, false, nil
		}
		return nil, false, err
	}
	return res, true, nil
}

// Set registers a key-value pair to the cache.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	return c.rdb.Do(ctx, "set", c.prefix+key, value).Err()
}

// Purge evicts all keys of the namespace.
func (c *Cache) Purge(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Remove evicts a specific key from the cache.
func (c *Cache) Remove(ctx context.Context, key string) error {
	return c.rdb.Do(ctx, "del", c.prefix+key).Err()
}

// SetTTL registers a key-value pair to the cache, specifying an expiry time.
func (c *Cache) SetTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Do(ctx, "set", c.prefix+key, value, "px", int(ttl.Milliseconds())).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

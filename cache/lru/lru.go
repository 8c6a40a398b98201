// Package lru implements a fixed size LRU cache.
package lru

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/beatlabs/resource/cache"
	"github.com/hashicorp/golang-lru"
)

var _ cache.Cache = &Cache{}

// EvictFunc is called with the key pushed out of a full cache and the time it was set.
type EvictFunc func(key string, added time.Time)

// OptionFunc definition for configuring the cache in a functional way.
type OptionFunc func(*Cache) error

// WithEvict reports the entries dropped to make room for new ones.
// Removals and purges are not reported.
func WithEvict(fn EvictFunc) OptionFunc {
	return func(c *Cache) error {
		if fn == nil {
			return errors.New("evict func must be supplied")
		}
		c.onEvict = fn
		return nil
	}
}

type slot struct {
	value interface{}
	added time.Time
}

// Cache encapsulates a thread-safe fixed size LRU cache.
type Cache struct {
	mu      sync.Mutex
	size    int
	cache   *lru.Cache
	onEvict EvictFunc
}

// New returns a new LRU cache that can hold 'size' number of keys at a time.
func New(size int, oo ...OptionFunc) (*Cache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	lc := &Cache{size: size, cache: c}
	for _, o := range oo {
		if err := o(lc); err != nil {
			return nil, err
		}
	}
	return lc, nil
}

// Get executes a lookup and returns whether a key exists in the cache along with its value.
func (c *Cache) Get(_ context.Context, key string) (interface{}, bool, error) {
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.(slot).value, true, nil
}

// Purge evicts all keys present in the cache.
func (c *Cache) Purge(_ context.Context) error {
	c.cache.Purge()
	return nil
}

// Remove evicts a specific key from the cache.
func (c *Cache) Remove(_ context.Context, key string) error {
	c.cache.Remove(key)
	return nil
}

// Set adds the pair. A full cache drops its least recently used key first.
func (c *Cache) Set(_ context.Context, key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := slot{value: value, added: time.Now()}
	if c.onEvict == nil || c.cache.Contains(key) || c.cache.Len() < c.size {
		c.cache.Add(key, s)
		return nil
	}
	k, v, ok := c.cache.GetOldest()
	c.cache.Add(key, s)
	if ok {
		c.onEvict(k.(string), v.(slot).added)
	}
	return nil
}

// Len returns the number of keys in the cache.
func (c *Cache) Len() int {
	return c.cache.Len()
}

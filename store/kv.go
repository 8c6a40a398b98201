package store

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/beatlabs/resource/cache"
	"github.com/beatlabs/resource/cache/lru"
	"github.com/beatlabs/resource/cache/redis"
	"github.com/beatlabs/resource/encoding/json"
	"github.com/beatlabs/resource/log"
	"github.com/beatlabs/resource/request"
)

var _ Store = &KV{}

// KV is a store backed by a key value cache. Entries are encoded as JSON and written to the
// cache, pending calls stay in process. Cache failures are logged and treated as misses.
type KV struct {
	name    string
	backend cache.Cache
	mu      sync.Mutex
	pending map[string]*Pending
}

// NewKV returns a store on top of the cache. A cache.TTLCache lets the backend expire entries.
func NewKV(name string, backend cache.Cache) (*KV, error) {
	if backend == nil {
		return nil, fmt.Errorf("store %s: cache is nil", name)
	}
	return &KV{name: name, backend: backend, pending: make(map[string]*Pending)}, nil
}

// NewLRU returns a bounded in-process store keeping up to size entries. Entries dropped for
// room are reported as capacity evictions.
func NewLRU(size int) (*KV, error) {
	const name = "lru"
	c, err := lru.New(size, lru.WithEvict(func(_ string, added time.Time) {
		monitor.evict(name, reasonCapacity, time.Since(added))
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return NewKV(name, c)
}

// NewRedis returns a store shared through Redis.
func NewRedis(opt redis.Options) (*KV, error) {
	c, err := redis.New(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis cache: %w", err)
	}
	return NewKV("redis", c)
}

// Put stores the item under the key of the request.
func (s *KV) Put(ctx context.Context, req *request.Request, it Item) Item {
	key, ok := s.key(ctx, req)
	if !ok || it == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := it.(type) {
	case *Pending:
		s.pending[key] = t
	case *Entry:
		delete(s.pending, key)
		if err := s.set(ctx, key, t); err != nil {
			s.fail(ctx, "put", key, err)
			return nil
		}
		monitor.add(s.name)
	}
	return it
}

// Get returns the pending call or the fresh entry of the request.
func (s *KV) Get(ctx context.Context, req *request.Request) Item {
	key, ok := s.key(ctx, req)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx, key)
}

func (s *KV) get(ctx context.Context, key string) Item {
	if p, ok := s.pending[key]; ok {
		return p
	}
	e, err := s.load(ctx, key)
	if err != nil {
		s.fail(ctx, "get", key, err)
		return nil
	}
	if e == nil {
		monitor.miss(s.name)
		return nil
	}
	if expired(e) {
		if err := s.backend.Remove(ctx, key); err != nil {
			s.fail(ctx, "evict", key, err)
		}
		monitor.evict(s.name, reasonExpired, e.Age())
		monitor.miss(s.name)
		return nil
	}
	monitor.hit(s.name)
	return e
}

// Pop returns and removes the item of the request.
func (s *KV) Pop(ctx context.Context, req *request.Request) Item {
	key, ok := s.key(ctx, req)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[key]; ok {
		delete(s.pending, key)
		return p
	}
	e, err := s.load(ctx, key)
	if err != nil {
		s.fail(ctx, "pop", key, err)
		return nil
	}
	if e == nil {
		return nil
	}
	if err := s.backend.Remove(ctx, key); err != nil {
		s.fail(ctx, "pop", key, err)
	}
	monitor.evict(s.name, reasonPopped, e.Age())
	return e
}

// Has reports whether Get would return an item.
func (s *KV) Has(ctx context.Context, req *request.Request) bool {
	return s.Get(ctx, req) != nil
}

// Invalidate purges the cache and forgets the pending calls.
func (s *KV) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[string]*Pending)
	if err := s.backend.Purge(ctx); err != nil {
		monitor.err(s.name)
		return fmt.Errorf("failed to purge store %s: %w", s.name, err)
	}
	monitor.evict(s.name, reasonInvalidated, 0)
	return nil
}

// Close closes the backend when it holds connections.
func (s *KV) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Claim returns the fresh item of the request or registers the pending call.
func (s *KV) Claim(ctx context.Context, req *request.Request, p *Pending) (Item, bool) {
	key, ok := s.key(ctx, req)
	if !ok {
		return nil, true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if it := s.get(ctx, key); it != nil {
		if _, ok := it.(*Pending); ok {
			monitor.dedup(s.name)
		}
		return it, false
	}
	s.pending[key] = p
	return nil, true
}

// Settle writes the entry when the pending call still owns the slot.
func (s *KV) Settle(ctx context.Context, req *request.Request, p *Pending, e *Entry) Item {
	key, ok := s.key(ctx, req)
	if !ok || e == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[key] != p {
		return nil
	}
	delete(s.pending, key)
	if err := s.set(ctx, key, e); err != nil {
		s.fail(ctx, "put", key, err)
		return nil
	}
	monitor.add(s.name)
	return e
}

// Release forgets the pending call when it still owns the slot.
func (s *KV) Release(ctx context.Context, req *request.Request, p *Pending) bool {
	key, ok := s.key(ctx, req)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[key] != p {
		return false
	}
	delete(s.pending, key)
	return true
}

func (s *KV) set(ctx context.Context, key string, e *Entry) error {
	b, err := json.Encode(e)
	if err != nil {
		return err
	}
	if ttlCache, ok := s.backend.(cache.TTLCache); ok && e.ttl > 0 {
		return ttlCache.SetTTL(ctx, key, b, e.ttl)
	}
	return s.backend.Set(ctx, key, b)
}

func (s *KV) load(ctx context.Context, key string) (*Entry, error) {
	v, ok, err := s.backend.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	return decode(v)
}

func decode(v interface{}) (*Entry, error) {
	var raw []byte
	switch t := v.(type) {
	case []byte:
		raw = t
	case string:
		raw = []byte(t)
	default:
		return nil, fmt.Errorf("unexpected cached value of type %T", v)
	}
	e := &Entry{}
	if err := json.DecodeRaw(raw, e); err != nil {
		return nil, fmt.Errorf("failed to decode cached entry: %w", err)
	}
	return e, nil
}

func (s *KV) fail(ctx context.Context, op, key string, err error) {
	monitor.err(s.name)
	log.FromContext(ctx).Errorf("store %s failed to %s %q: %v", s.name, op, key, err)
}

func (s *KV) key(ctx context.Context, req *request.Request) (string, bool) {
	key, err := KeyOf(req)
	if err != nil {
		log.FromContext(ctx).Debugf("request %s is not cacheable: %v", req, err)
		return "", false
	}
	return key, key != ""
}

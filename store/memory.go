package store

import (
	"context"
	"sync"

	"github.com/beatlabs/resource/log"
	"github.com/beatlabs/resource/request"
)

var _ Store = &Memory{}

// Memory is an unbounded in-process store. Entries with a ttl <= 0 never become stale.
type Memory struct {
	name  string
	mu    sync.Mutex
	items map[string]Item
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{name: "memory", items: make(map[string]Item)}
}

// Put stores the item under the key of the request.
func (m *Memory) Put(ctx context.Context, req *request.Request, it Item) Item {
	key, ok := m.key(ctx, req)
	if !ok || it == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = it
	if _, ok := it.(*Entry); ok {
		monitor.add(m.name)
	}
	return it
}

// Get returns the item of the request, evicting it when stale.
func (m *Memory) Get(ctx context.Context, req *request.Request) Item {
	key, ok := m.key(ctx, req)
	if !ok {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(key)
}

func (m *Memory) get(key string) Item {
	it, ok := m.items[key]
	if !ok {
		monitor.miss(m.name)
		return nil
	}
	if e, ok := it.(*Entry); ok {
		if expired(e) {
			delete(m.items, key)
			monitor.evict(m.name, reasonExpired, e.Age())
			monitor.miss(m.name)
			return nil
		}
		monitor.hit(m.name)
	}
	return it
}

// Pop returns and removes the item of the request.
func (m *Memory) Pop(ctx context.Context, req *request.Request) Item {
	key, ok := m.key(ctx, req)
	if !ok {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok {
		return nil
	}
	delete(m.items, key)
	if e, ok := it.(*Entry); ok {
		monitor.evict(m.name, reasonPopped, e.Age())
	}
	return it
}

// Has reports whether a fresh entry or a pending call exists for the request.
func (m *Memory) Has(ctx context.Context, req *request.Request) bool {
	return m.Get(ctx, req) != nil
}

// Invalidate removes all items.
func (m *Memory) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, it := range m.items {
		if e, ok := it.(*Entry); ok {
			monitor.evict(m.name, reasonInvalidated, e.Age())
		}
		delete(m.items, key)
	}
	return nil
}

// Claim returns the fresh item of the request or registers the pending call.
func (m *Memory) Claim(ctx context.Context, req *request.Request, p *Pending) (Item, bool) {
	key, ok := m.key(ctx, req)
	if !ok {
		return nil, true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if it := m.get(key); it != nil {
		if _, ok := it.(*Pending); ok {
			monitor.dedup(m.name)
		}
		return it, false
	}
	m.items[key] = p
	return nil, true
}

// Settle stores the entry in place of the pending call it resolves.
func (m *Memory) Settle(ctx context.Context, req *request.Request, p *Pending, e *Entry) Item {
	key, ok := m.key(ctx, req)
	if !ok || e == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[key] != Item(p) {
		return nil
	}
	m.items[key] = e
	monitor.add(m.name)
	return e
}

// Release removes the pending call if it still owns the slot.
func (m *Memory) Release(ctx context.Context, req *request.Request, p *Pending) bool {
	key, ok := m.key(ctx, req)
	if !ok {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[key] != Item(p) {
		return false
	}
	delete(m.items, key)
	return true
}

// Len returns the number of stored items, pending calls included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Memory) key(ctx context.Context, req *request.Request) (string, bool) {
	key, err := KeyOf(req)
	if err != nil {
		log.FromContext(ctx).Debugf("request %s is not cacheable: %v", req, err)
		return "", false
	}
	return key, key != ""
}

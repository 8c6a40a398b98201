// Package store provides the cache stores of resource actions. A store keeps completed
// responses (entries) and in-flight calls (pending) under the cache key of their request.
package store

import (
	"context"

	"github.com/beatlabs/resource/request"
)

// Item is either an *Entry or a *Pending.
type Item interface {
	item()
}

// Store is the cache of a resource. Requests that are not cacheable are never stored.
type Store interface {
	// Put stores the item under the key of the request and returns it.
	// It returns nil when the request is not cacheable.
	Put(ctx context.Context, req *request.Request, it Item) Item
	// Get returns the item of the request. Stale entries are evicted and reported as a miss.
	Get(ctx context.Context, req *request.Request) Item
	// Pop returns and removes the item of the request, stale or not.
	Pop(ctx context.Context, req *request.Request) Item
	// Has reports whether Get would return an item.
	Has(ctx context.Context, req *request.Request) bool
	// Invalidate removes all items.
	Invalidate(ctx context.Context) error
	// Claim returns the fresh item already stored for the request, or registers the pending
	// call and grants ownership to the caller. Both happen atomically.
	Claim(ctx context.Context, req *request.Request, p *Pending) (Item, bool)
	// Settle replaces the pending call with its entry when the slot still holds p, and returns
	// the entry. It returns nil when nothing was stored.
	Settle(ctx context.Context, req *request.Request, p *Pending, e *Entry) Item
	// Release removes the pending call when the slot still holds p.
	Release(ctx context.Context, req *request.Request, p *Pending) bool
}

func expired(e *Entry) bool {
	return e.ttl > 0 && e.Stale()
}

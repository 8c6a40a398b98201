package store

import (
	"context"

	"github.com/beatlabs/resource/request"
)

var _ Store = Noop{}

// Noop is the store of resources that do not cache. Nothing is ever stored, so every call
// reaches the transport.
type Noop struct{}

// NewNoop returns a store that never stores.
func NewNoop() Noop {
	return Noop{}
}

// Put returns the item unchanged.
func (Noop) Put(_ context.Context, _ *request.Request, it Item) Item {
	return it
}

// Get always misses.
func (Noop) Get(context.Context, *request.Request) Item {
	return nil
}

// Pop always misses.
func (Noop) Pop(context.Context, *request.Request) Item {
	return nil
}

// Has is always false.
func (Noop) Has(context.Context, *request.Request) bool {
	return false
}

// Invalidate does nothing.
func (Noop) Invalidate(context.Context) error {
	return nil
}

// Settle stores nothing.
func (Noop) Settle(context.Context, *request.Request, *Pending, *Entry) Item {
	return nil
}

// Release has nothing to release.
func (Noop) Release(context.Context, *request.Request, *Pending) bool {
	return false
}

// Claim always grants ownership without registering the pending call.
func (Noop) Claim(context.Context, *request.Request, *Pending) (Item, bool) {
	return nil, true
}

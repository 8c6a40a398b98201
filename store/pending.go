package store

import (
	"context"
	"errors"
	"sync"
)

// ErrPendingUnresolved is returned when a pending call settles without an entry or error.
var ErrPendingUnresolved = errors.New("pending call settled without an entry")

// Pending is the placeholder of an in-flight call. It settles exactly once.
type Pending struct {
	once  sync.Once
	done  chan struct{}
	entry *Entry
	err   error
}

// NewPending returns an unsettled placeholder.
func NewPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) item() {}

// Resolve settles the call with its entry. Only the first settlement counts.
func (p *Pending) Resolve(e *Entry) {
	p.once.Do(func() {
		p.entry = e
		if e == nil {
			p.err = ErrPendingUnresolved
		}
		close(p.done)
	})
}

// Reject settles the call with an error. Only the first settlement counts.
func (p *Pending) Reject(err error) {
	p.once.Do(func() {
		if err == nil {
			err = ErrPendingUnresolved
		}
		p.err = err
		close(p.done)
	})
}

// Done is closed once the call settles.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the call settles or the context is done.
func (p *Pending) Wait(ctx context.Context) (*Entry, error) {
	select {
	case <-p.done:
		return p.entry, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

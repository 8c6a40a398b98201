package resource

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/beatlabs/resource/errors"
	"github.com/beatlabs/resource/store"
)

// Registered is the part of a resource the registry works with.
type Registered interface {
	Name() string
	Store() store.Store
	Invalidate(ctx context.Context) error
}

// Registry keeps resources by name. Actions invalidate the stores of other resources through it.
type Registry struct {
	mu        sync.RWMutex
	resources map[string]Registered
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{resources: make(map[string]Registered)}
}

// Register adds the resource. Names are unique.
func (r *Registry) Register(res Registered) error {
	if res == nil {
		return &RegistryError{Reason: "resource is nil"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resources[res.Name()]; ok {
		return &RegistryError{Name: res.Name(), Reason: "already registered"}
	}
	r.resources[res.Name()] = res
	return nil
}

// Get returns the registered resource.
func (r *Registry) Get(name string) (Registered, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resources[name]
	return res, ok
}

// Names returns the sorted names of the registered resources.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.resources))
	for n := range r.resources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Invalidate flushes the stores of the named resources. Unknown names are reported after the
// known ones are flushed.
func (r *Registry) Invalidate(ctx context.Context, names ...string) error {
	ee := make([]error, 0, len(names))
	for _, n := range names {
		res, ok := r.Get(n)
		if !ok {
			ee = append(ee, &RegistryError{Name: n, Reason: "not registered"})
			continue
		}
		ee = append(ee, res.Invalidate(ctx))
	}
	return errors.Aggregate(ee...)
}

// InvalidateAll flushes the stores of every registered resource.
func (r *Registry) InvalidateAll(ctx context.Context) error {
	return r.Invalidate(ctx, r.Names()...)
}

// Close closes the stores holding connections, e.g. the Redis ones. A store shared by several
// resources is closed once.
func (r *Registry) Close() error {
	closed := make(map[io.Closer]struct{})
	var ee []error
	for _, n := range r.Names() {
		res, _ := r.Get(n)
		c, ok := res.Store().(io.Closer)
		if !ok {
			continue
		}
		if _, ok := closed[c]; ok {
			continue
		}
		closed[c] = struct{}{}
		if err := c.Close(); err != nil {
			ee = append(ee, fmt.Errorf("failed to close store of %s: %w", n, err))
		}
	}
	return errors.Aggregate(ee...)
}

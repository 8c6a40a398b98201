package resource

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	clienthttp "github.com/beatlabs/resource/client/http"
	"github.com/beatlabs/resource/model"
	"github.com/beatlabs/resource/store"
)

// Transport performs the HTTP calls of a resource.
type Transport interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Resource is a declarative HTTP resource of models of type M.
type Resource[M model.Model] struct {
	name      string
	factory   func() M
	opts      Options
	actions   map[string]ActionOptions
	store     store.Store
	transport Transport
	phantom   model.PhantomGenerator
	registry  *Registry
}

// New creates a resource. The factory returns blank instances of the model.
func New[M model.Model](name string, factory func() M, opts Options, oo ...OptionFunc) (*Resource[M], error) {
	if name == "" {
		return nil, &ConfigurationError{Resource: name, Reason: "name is empty"}
	}
	if factory == nil {
		return nil, &ConfigurationError{Resource: name, Reason: "model factory is nil"}
	}
	if opts.PKAttr == "" {
		opts.PKAttr = DefaultPKAttr
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}

	st := &settings{}
	for _, o := range oo {
		if err := o(st); err != nil {
			return nil, &ConfigurationError{Resource: name, Reason: err.Error()}
		}
	}

	actions := DefaultActions()
	for n, a := range opts.Actions {
		actions[n] = a
	}
	for n, a := range actions {
		a = a.resolve(opts)
		if reason := a.validate(); reason != "" {
			return nil, &ConfigurationError{Resource: name, Action: n, Reason: reason}
		}
		actions[n] = a
	}

	r := &Resource[M]{
		name:      name,
		factory:   factory,
		opts:      opts,
		actions:   actions,
		store:     st.store,
		transport: st.transport,
		phantom:   st.phantom,
		registry:  st.registry,
	}

	switch {
	case !opts.UseCache:
		r.store = store.NewNoop()
	case r.store == nil:
		r.store = store.NewMemory()
	}

	if r.transport == nil {
		tc, err := clienthttp.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create transport: %w", err)
		}
		r.transport = tc
	}

	if r.registry != nil {
		if err := r.registry.Register(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Name returns the name of the resource.
func (r *Resource[M]) Name() string {
	return r.name
}

// Store returns the store of the resource.
func (r *Resource[M]) Store() store.Store {
	return r.store
}

// Actions returns the names of the declared actions.
func (r *Resource[M]) Actions() []string {
	names := make([]string, 0, len(r.actions))
	for n := range r.actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Invalidate flushes the store of the resource.
func (r *Resource[M]) Invalidate(ctx context.Context) error {
	return r.store.Invalidate(ctx)
}

// New returns an instance loaded with the raw fields. Instances without a primary key get
// a phantom one when a generator is configured.
func (r *Resource[M]) New(raw map[string]interface{}) (M, error) {
	m := r.factory()
	if raw != nil {
		if err := m.Load(raw); err != nil {
			return m, fmt.Errorf("failed to load %s instance: %w", r.name, err)
		}
	}
	if r.phantom == nil {
		return m, nil
	}
	if pk, ok := m.Dump()[r.opts.PKAttr]; ok && pk != nil {
		return m, nil
	}
	err := m.Load(map[string]interface{}{r.opts.PKAttr: r.phantom.Generate(m)})
	if err != nil {
		return m, fmt.Errorf("failed to assign phantom id to %s instance: %w", r.name, err)
	}
	return m, nil
}

// IsPhantom reports whether the instance carries a phantom primary key.
func (r *Resource[M]) IsPhantom(m M) bool {
	if r.phantom == nil {
		return false
	}
	return r.phantom.Is(m.Dump()[r.opts.PKAttr])
}

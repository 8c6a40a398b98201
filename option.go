package resource

import (
	"errors"
	"time"

	"github.com/beatlabs/resource/model"
	"github.com/beatlabs/resource/request"
	"github.com/beatlabs/resource/store"
)

// DefaultCacheTTL is the lifetime of cached responses when none is configured.
const DefaultCacheTTL = 60 * time.Second

// DefaultPKAttr is the attribute holding the primary key of a model.
const DefaultPKAttr = "id"

// Options declares a resource.
type Options struct {
	// URL is the url template of the resource, e.g. http://api/users/:pk/.
	URL string
	// PKAttr is the primary key attribute, used for phantom identifiers.
	PKAttr string
	// URLAttr is the item attribute holding the url of the item.
	URLAttr string
	// DataAttr is the response attribute holding the payload.
	DataAttr string
	// ParamDefaults provide the url tokens missing from the query. "@attr" reads the payload.
	ParamDefaults map[string]interface{}
	// HeaderDefaults are sent with every call. Values are strings, string slices or request.HeaderFunc.
	HeaderDefaults       map[string]interface{}
	StripTrailingSlashes bool
	// UseCache enables the store of the resource for cacheable actions.
	UseCache bool
	// CacheTTL is the lifetime of cached responses. Negative values cache forever.
	CacheTTL     time.Duration
	ResponseType request.ResponseType
	// Actions are merged over DefaultActions by name.
	Actions map[string]ActionOptions
}

type settings struct {
	store     store.Store
	transport Transport
	phantom   model.PhantomGenerator
	registry  *Registry
}

// OptionFunc definition for configuring the resource in a functional way.
type OptionFunc func(*settings) error

// WithStore option for setting the store of the resource. It is used only when caching is enabled.
func WithStore(s store.Store) OptionFunc {
	return func(st *settings) error {
		if s == nil {
			return errors.New("store must be supplied")
		}
		st.store = s
		return nil
	}
}

// WithTransport option for setting the transport performing the calls.
func WithTransport(t Transport) OptionFunc {
	return func(st *settings) error {
		if t == nil {
			return errors.New("transport must be supplied")
		}
		st.transport = t
		return nil
	}
}

// WithPhantom option for assigning phantom identifiers to new instances.
func WithPhantom(g model.PhantomGenerator) OptionFunc {
	return func(st *settings) error {
		if g == nil {
			return errors.New("phantom generator must be supplied")
		}
		st.phantom = g
		return nil
	}
}

// WithRegistry option for registering the resource. Invalidations of other resources are
// resolved through the registry.
func WithRegistry(r *Registry) OptionFunc {
	return func(st *settings) error {
		if r == nil {
			return errors.New("registry must be supplied")
		}
		st.registry = r
		return nil
	}
}

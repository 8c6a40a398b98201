package resource

import (
	"net/http"
	"strings"
	"time"

	"github.com/beatlabs/resource/internal/validation"
	"github.com/beatlabs/resource/request"
)

// Names of the default actions.
const (
	ActionGet    = "get"
	ActionQuery  = "query"
	ActionSave   = "save"
	ActionUpdate = "update"
	ActionPatch  = "patch"
	ActionRemove = "remove"
	ActionDelete = "delete"
)

// ActionOptions declares an action of a resource. Zero values fall back to the resource options.
type ActionOptions struct {
	Method string
	// URL overrides the url template of the resource.
	URL    string
	IsList bool
	// NoCache bypasses the store of the resource for this action.
	NoCache bool
	// DataAttr is the response attribute holding the payload.
	DataAttr string
	// URLAttr is the item attribute holding the url of the item. List responses pre-populate
	// the get entries of their items with it.
	URLAttr string
	// ParamDefaults and HeaderDefaults are merged over the ones of the resource.
	ParamDefaults  map[string]interface{}
	HeaderDefaults map[string]interface{}
	CacheTTL       time.Duration
	ResponseType   request.ResponseType
	// Invalidates names the registered resources whose stores are flushed after success.
	Invalidates []string
	// InvalidateSelf flushes the store of the resource after a successful call that is not cached.
	InvalidateSelf bool
}

// DefaultActions returns the actions every resource starts with.
func DefaultActions() map[string]ActionOptions {
	return map[string]ActionOptions{
		ActionGet:    {Method: http.MethodGet},
		ActionQuery:  {Method: http.MethodGet, IsList: true},
		ActionSave:   {Method: http.MethodPost},
		ActionUpdate: {Method: http.MethodPut},
		ActionPatch:  {Method: http.MethodPatch},
		ActionRemove: {Method: http.MethodDelete},
		ActionDelete: {Method: http.MethodDelete},
	}
}

// resolve fills the zero values of the action from the resource options.
func (a ActionOptions) resolve(o Options) ActionOptions {
	a.Method = strings.ToUpper(a.Method)
	if a.URL == "" {
		a.URL = o.URL
	}
	if a.DataAttr == "" {
		a.DataAttr = o.DataAttr
	}
	if a.URLAttr == "" {
		a.URLAttr = o.URLAttr
	}
	if a.ResponseType == "" {
		a.ResponseType = o.ResponseType
	}
	if a.ResponseType == "" {
		a.ResponseType = request.JSON
	}
	if a.CacheTTL == 0 {
		a.CacheTTL = o.CacheTTL
	}
	if !o.UseCache {
		a.NoCache = true
	}
	a.ParamDefaults = merge(o.ParamDefaults, a.ParamDefaults)
	a.HeaderDefaults = merge(o.HeaderDefaults, a.HeaderDefaults)
	return a
}

func (a ActionOptions) validate() string {
	if !validation.OneOf(a.Method, http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions) {
		return "unsupported method " + a.Method
	}
	if a.URL == "" {
		return "url is empty"
	}
	if validation.HasBlank(a.Invalidates) {
		return "invalidates contains an empty name"
	}
	return ""
}

func (a ActionOptions) hasBody() bool {
	return request.HasBody(a.Method)
}

func merge(base, over map[string]interface{}) map[string]interface{} {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

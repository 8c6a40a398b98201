package request

import (
	"fmt"
	"net/http"
	"sort"
)

// HeaderContext is what a computed header value is derived from.
type HeaderContext struct {
	Query   Params
	Payload interface{}
	Method  string
	Action  string
}

// HeaderFunc computes a header value per call. An empty value omits the header.
type HeaderFunc func(hc HeaderContext) string

// BuildHeaders applies the configured header defaults. Values are strings, string slices or HeaderFunc.
func BuildHeaders(defaults map[string]interface{}, hc HeaderContext) (http.Header, error) {
	hdr := make(http.Header, len(defaults))

	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		switch v := defaults[name].(type) {
		case nil:
		case string:
			if v != "" {
				hdr.Set(name, v)
			}
		case []string:
			for _, s := range v {
				hdr.Add(name, s)
			}
		case HeaderFunc:
			if s := v(hc); s != "" {
				hdr.Set(name, s)
			}
		case func(HeaderContext) string:
			if s := v(hc); s != "" {
				hdr.Set(name, s)
			}
		default:
			return nil, fmt.Errorf("header %q has unsupported type %T", name, v)
		}
	}
	return hdr, nil
}

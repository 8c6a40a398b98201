// Package request describes the outbound calls of a resource action and the response snapshots they produce.
package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/beatlabs/resource/encoding"
	"github.com/beatlabs/resource/encoding/json"
)

// ResponseType is the body type an action expects back.
type ResponseType string

const (
	// JSON responses are decoded and hydrated into models.
	JSON ResponseType = "json"
	// Text responses are kept as raw text.
	Text ResponseType = "text"
	// Blob responses are kept as raw bytes.
	Blob ResponseType = "blob"
	// ArrayBuffer responses are kept as raw bytes.
	ArrayBuffer ResponseType = "arraybuffer"
)

// Params holds the query of an action call. Values are scalars or slices of scalars.
type Params map[string]interface{}

// Clone returns a shallow copy of the params.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Request is the fully built description of an outbound call.
type Request struct {
	Method       string
	URL          string
	Header       http.Header
	Body         interface{}
	ResponseType ResponseType
}

// HasBody reports whether the method of the request carries a payload.
func HasBody(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// String returns the method and the url of the request.
func (r *Request) String() string {
	return r.Method + " " + r.URL
}

// HTTP creates the net/http request, encoding the body as JSON.
func (r *Request) HTTP(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		b, err := json.Encode(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request %s: %w", r, err)
	}

	switch r.ResponseType {
	case JSON, "":
		req.Header.Set(encoding.AcceptHeader, json.Type)
	case Text:
		req.Header.Set(encoding.AcceptHeader, encoding.TextType)
	default:
		req.Header.Set(encoding.AcceptHeader, encoding.AnyType)
	}
	if body != nil {
		req.Header.Set(encoding.ContentTypeHeader, json.TypeCharset)
	}
	for k, vv := range r.Header {
		req.Header.Del(k)
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	return req, nil
}

package request

import (
	"fmt"
	"io"
	"net/http"

	"github.com/beatlabs/resource/encoding/json"
)

// Response is a snapshot of a HTTP response. The body is fully read, so the snapshot
// can be replayed any number of times.
type Response struct {
	StatusCode int         `json:"status"`
	Header     http.Header `json:"header,omitempty"`
	Body       []byte      `json:"body,omitempty"`
	URL        string      `json:"url,omitempty"`
}

// FromHTTP captures the HTTP response and closes its body.
func FromHTTP(rsp *http.Response) (*Response, error) {
	defer func() {
		_ = rsp.Body.Close()
	}()

	b, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	r := &Response{
		StatusCode: rsp.StatusCode,
		Header:     rsp.Header.Clone(),
		Body:       b,
	}
	if rsp.Request != nil && rsp.Request.URL != nil {
		r.URL = rsp.Request.URL.String()
	}
	return r, nil
}

// OK reports a 2xx status code.
func (r *Response) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Clone returns an independent copy, headers included.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	c := &Response{
		StatusCode: r.StatusCode,
		Header:     r.Header.Clone(),
		URL:        r.URL,
	}
	if r.Body != nil {
		c.Body = make([]byte, len(r.Body))
		copy(c.Body, r.Body)
	}
	return c
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Decode the JSON body into a generic value. An empty body decodes to nil.
func (r *Response) Decode() (interface{}, error) {
	if len(r.Body) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.DecodeRaw(r.Body, &v); err != nil {
		return nil, err
	}
	return v, nil
}

package store

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/beatlabs/resource/request"
)

// ErrMalformedURL is returned when a cache key is requested for an URL that cannot be parsed.
var ErrMalformedURL = errors.New("malformed url")

// Key returns the cache key of a call, "{METHOD} {url}". Only GET and HEAD calls expecting
// json or text are cacheable, every other call gets an empty key.
func Key(method, rawURL string, rt request.ResponseType) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrMalformedURL, rawURL, err)
	}
	if u.Host == "" && u.Path == "" {
		return "", fmt.Errorf("%w %q: missing host and path", ErrMalformedURL, rawURL)
	}

	method = strings.ToUpper(method)
	if method != http.MethodGet && method != http.MethodHead {
		return "", nil
	}
	switch rt {
	case request.JSON, request.Text, "":
	default:
		return "", nil
	}
	return method + " " + rawURL, nil
}

// KeyOf returns the cache key of a request.
func KeyOf(req *request.Request) (string, error) {
	if req == nil {
		return "", nil
	}
	return Key(req.Method, req.URL, req.ResponseType)
}

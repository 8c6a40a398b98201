// Package correlation provides support for correlation id's and propagation.
package correlation

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	// HeaderID constant.
	HeaderID string = "X-Correlation-Id"
	// ID constant.
	ID string = "correlationID"
)

type idContextKey struct{}

var idKey = idContextKey{}

// IDFromContext returns the correlation ID from the context.
// If no ID is set a new one is generated.
func IDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(idKey).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

// ContextWithID sets a correlation ID to a context.
func ContextWithID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, idKey, correlationID)
}

// EnsureID returns a context carrying a correlation ID, generating one when missing.
func EnsureID(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(idKey).(string); ok && id != "" {
		return ctx, id
	}
	id := uuid.New().String()
	return ContextWithID(ctx, id), id
}

// SetHeader propagates the correlation ID of the context to the request, unless already set.
func SetHeader(ctx context.Context, req *http.Request) {
	if req.Header.Get(HeaderID) != "" {
		return
	}
	req.Header.Set(HeaderID, IDFromContext(ctx))
}

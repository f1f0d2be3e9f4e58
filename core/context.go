package core

import (
	"context"

	"github.com/google/uuid"
)

// Context keys for retrieval options
type contextKey string

const requestIDKey contextKey = "requestID"

// WithRequestID attaches a request id to the context.
func WithRequestID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request id stored in the context, if any.
func RequestIDFrom(ctx context.Context) (uuid.UUID, bool) {
	val := ctx.Value(requestIDKey)
	if val == nil {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

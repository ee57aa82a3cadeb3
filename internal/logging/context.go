package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// ContextWithRequestID stores the request id in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// FromContext returns logger annotated with the request id carried by ctx, if any.
func FromContext(ctx context.Context, logger zerolog.Logger) *zerolog.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		l := logger.With().Str("request_id", id).Logger()
		return &l
	}
	return &logger
}

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"trendboard/internal/logging"
)

const RequestIDHeader = "X-Request-ID"

const maxRequestIDLen = 64

// RequestID propagates a caller supplied X-Request-ID or mints a new one, and exposes it on the
// request context and the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		r.Header.Set(RequestIDHeader, id)
		w.Header().Set(RequestIDHeader, id)

		ctx := logging.ContextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package middleware

import (
	"encoding/json"
	"net/http"

	"trendboard/internal/logging"
)

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := logging.RequestIDFromContext(r.Context())
	if requestID == "" {
		requestID = r.Header.Get(RequestIDHeader)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}

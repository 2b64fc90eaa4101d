package middleware

import (
	"net/http"

	"github.com/shortsmith/shortsmith/pkg/requestid"
)

// RequestID takes the request ID from the x-request-id header, or generates a
// fresh one, and injects it into the request context so every layer logs with
// the same ID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("x-request-id")
		if requestID == "" {
			requestID = requestid.Generate()
		}

		ctx := requestid.ToContext(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

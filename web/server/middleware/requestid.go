package middleware

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/nrednav/cuid2"
)

// RequestIDHeader is the header that carries the request ID.
const RequestIDHeader = "X-Request-Id"

// RequestID assigns an ID to each request, stores it in the request context
// and returns it in the response headers. A client-provided ID is kept if it's
// a valid CUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !cuid2.IsCuid(id) {
			id = cuid2.Generate()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), chimw.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID stored in ctx, or an empty string.
func GetRequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"condogate/pkg/requestcontext"
)

// RequestID tags every request with an id (honoring an inbound
// X-Request-ID) and pins the request-scoped clock, so all store writes in
// one request observe the same timestamp.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), id)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

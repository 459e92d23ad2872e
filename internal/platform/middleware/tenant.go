package middleware

import (
	"net/http"
	"strings"

	"condogate/pkg/requestcontext"
)

// DefaultTenant is the tenant identifier assumed when the header is
// absent. The reference deployment is single-tenant in practice.
const DefaultTenant = "default"

// Tenant captures the X-Tenant header into the request context.
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant := strings.TrimSpace(r.Header.Get("X-Tenant"))
		if tenant == "" {
			tenant = DefaultTenant
		}
		ctx := requestcontext.WithTenant(r.Context(), tenant)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

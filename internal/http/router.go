// Package http assembles the HTTP surface: middleware chain, route tree
// and role gates.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	authhandler "condogate/internal/auth/handler"
	"condogate/internal/auth/models"
	condohandler "condogate/internal/condo/handler"
	"condogate/internal/platform/metrics"
	"condogate/internal/platform/middleware"
	residenthandler "condogate/internal/resident/handler"
	unithandler "condogate/internal/unit/handler"
	visitorhandler "condogate/internal/visitor/handler"
)

// Handlers collects the per-domain handlers the router mounts.
type Handlers struct {
	Auth      *authhandler.Handler
	Condos    *condohandler.Handler
	Units     *unithandler.Handler
	Residents *residenthandler.Handler
	Visitors  *visitorhandler.Handler
}

// New builds the route tree. Reads require any valid bearer token;
// creates and updates require ADMIN or MANAGER; deletes require ADMIN.
func New(h Handlers, validator middleware.TokenValidator, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Tenant)
	if m != nil {
		r.Use(m.HTTPMiddleware(func(req *http.Request) string {
			return chi.RouteContext(req.Context()).RoutePattern()
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		h.Auth.Routes(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(validator, logger))
			h.Auth.ProtectedRoutes(r)
		})
	})

	write := middleware.RequireRole(logger, models.RoleAdmin, models.RoleManager)
	del := middleware.RequireRole(logger, models.RoleAdmin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))

		r.Route("/condos", func(r chi.Router) {
			r.Get("/", h.Condos.List)
			r.Get("/{id}", h.Condos.Get)
			r.Get("/{id}/counters", h.Condos.Counters)
			r.With(write).Post("/", h.Condos.Create)
			r.With(write).Put("/{id}", h.Condos.Update)
			r.With(del).Delete("/{id}", h.Condos.Delete)
		})

		r.Route("/units", func(r chi.Router) {
			r.Get("/", h.Units.List)
			r.Get("/{id}", h.Units.Get)
			r.With(write).Post("/", h.Units.Create)
			r.With(write).Put("/{id}", h.Units.Update)
			r.With(del).Delete("/{id}", h.Units.Delete)
		})

		r.Route("/residents", func(r chi.Router) {
			r.Get("/", h.Residents.List)
			r.Get("/{id}", h.Residents.Get)
			r.With(write).Post("/", h.Residents.Create)
			r.With(write).Put("/{id}", h.Residents.Update)
			r.With(del).Delete("/{id}", h.Residents.Delete)
		})

		r.Route("/visitors", func(r chi.Router) {
			r.Get("/", h.Visitors.List)
			r.Get("/{id}", h.Visitors.Get)
			r.With(write).Post("/", h.Visitors.Create)
			r.With(write).Put("/{id}", h.Visitors.Update)
			r.With(write).Post("/{id}/approve", h.Visitors.Approve)
			r.With(write).Post("/{id}/reject", h.Visitors.Reject)
			r.With(write).Post("/{id}/checkout", h.Visitors.Checkout)
			r.With(write).Post("/{id}/handoff", h.Visitors.Handoff)
			r.With(del).Delete("/{id}", h.Visitors.Delete)
		})
	})

	return otelhttp.NewHandler(r, "condogate")
}

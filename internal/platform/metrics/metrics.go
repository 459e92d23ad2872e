package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	LoginAttempts   prometheus.Counter
	LoginFailures   prometheus.Counter
	CondosCreated   prometheus.Counter
	UnitsCreated    prometheus.Counter
	ResidentsLinked prometheus.Counter
	EntriesCreated  prometheus.Counter

	// EntryTransitions counts visitor lifecycle actions by action name
	// (approve, reject, checkout, handoff) and outcome (ok, rejected).
	EntryTransitions *prometheus.CounterVec

	httpDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers metrics on a specific registerer; tests pass a fresh
// registry to avoid duplicate-registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "condogate_login_attempts_total",
			Help: "Total login attempts.",
		}),
		LoginFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "condogate_login_failures_total",
			Help: "Total failed login attempts.",
		}),
		CondosCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "condogate_condominiums_created_total",
			Help: "Total condominiums created.",
		}),
		UnitsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "condogate_units_created_total",
			Help: "Total units created.",
		}),
		ResidentsLinked: factory.NewCounter(prometheus.CounterOpts{
			Name: "condogate_residents_linked_total",
			Help: "Total successful resident-to-unit links.",
		}),
		EntriesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "condogate_visitor_entries_created_total",
			Help: "Total visitor entries created.",
		}),
		EntryTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "condogate_visitor_transitions_total",
			Help: "Visitor lifecycle transitions by action and outcome.",
		}, []string{"action", "outcome"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "condogate_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route pattern, and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// HTTPMiddleware records request duration per route pattern.
func (m *Metrics) HTTPMiddleware(routePattern func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			route := routePattern(r)
			if route == "" {
				route = "unmatched"
			}
			m.httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).
				Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

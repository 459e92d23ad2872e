// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them without importing any
// net/http machinery. Tests inject them directly:
//
//	ctx = requestcontext.WithSubject(ctx, userID, role)
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	"condogate/pkg/domain"
)

type (
	userIDKey    struct{}
	roleKey      struct{}
	tenantKey    struct{}
	requestIDKey struct{}
	timeKey      struct{}
)

// UserID retrieves the authenticated subject from the context.
// Returns the zero UUID if no subject is set.
func UserID(ctx context.Context) domain.UserID {
	if id, ok := ctx.Value(userIDKey{}).(domain.UserID); ok {
		return id
	}
	return domain.UserID{}
}

// Role retrieves the authenticated subject's role, or "" when unset.
func Role(ctx context.Context) string {
	if r, ok := ctx.Value(roleKey{}).(string); ok {
		return r
	}
	return ""
}

// WithSubject injects the authenticated subject id and role.
func WithSubject(ctx context.Context, id domain.UserID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey{}, id)
	return context.WithValue(ctx, roleKey{}, role)
}

// Tenant retrieves the tenant identifier carried by the request.
func Tenant(ctx context.Context) string {
	if t, ok := ctx.Value(tenantKey{}).(string); ok {
		return t
	}
	return ""
}

// WithTenant injects the tenant identifier.
func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenant)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Now retrieves the request-scoped time, falling back to time.Now() for
// non-HTTP contexts (workers, CLI, tests that don't pin the clock).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(timeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request-scoped clock, mainly for tests.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, timeKey{}, t)
}

// Package lockout throttles repeated failed logins per identifier+IP.
//
// Five failures inside a fifteen-minute window lock the pair out for
// fifteen minutes. The store keeps only counters; the policy lives here.
package lockout

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// AttemptsPerWindow is the failure budget inside one window.
	AttemptsPerWindow = 5
	// Window is the sliding failure-counting window.
	Window = 15 * time.Minute
	// LockDuration is how long a locked pair stays locked.
	LockDuration = 15 * time.Minute
)

// Store persists failure counters and lock marks.
type Store interface {
	// IncrFailures increments the failure counter for key, starting a
	// fresh window when none is active, and returns the new count.
	IncrFailures(ctx context.Context, key string, window time.Duration) (int, error)
	// LockedUntil reports whether key is locked and until when.
	LockedUntil(ctx context.Context, key string) (time.Time, bool, error)
	// SetLocked marks key locked until the given time.
	SetLocked(ctx context.Context, key string, until time.Time) error
	// Clear drops counters and lock marks for key.
	Clear(ctx context.Context, key string) error
}

// Service applies the lockout policy. Store errors fail open: a broken
// counter backend must not take logins down with it.
type Service struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func key(identifier, ip string) string {
	return fmt.Sprintf("lockout:%s:%s", identifier, ip)
}

// Allow reports whether a login attempt for identifier+ip may proceed,
// and the retry-after duration when it may not.
func (s *Service) Allow(ctx context.Context, identifier, ip string, now time.Time) (bool, time.Duration) {
	until, locked, err := s.store.LockedUntil(ctx, key(identifier, ip))
	if err != nil {
		s.logger.WarnContext(ctx, "lockout check failed, allowing attempt", "error", err)
		return true, 0
	}
	if locked && until.After(now) {
		return false, until.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a failed attempt and locks the pair when the
// window budget is exhausted.
func (s *Service) RecordFailure(ctx context.Context, identifier, ip string, now time.Time) {
	k := key(identifier, ip)
	count, err := s.store.IncrFailures(ctx, k, Window)
	if err != nil {
		s.logger.WarnContext(ctx, "lockout failure record failed", "error", err)
		return
	}
	if count >= AttemptsPerWindow {
		if err := s.store.SetLocked(ctx, k, now.Add(LockDuration)); err != nil {
			s.logger.WarnContext(ctx, "lockout lock set failed", "error", err)
		}
	}
}

// Clear resets counters after a successful login.
func (s *Service) Clear(ctx context.Context, identifier, ip string) {
	if err := s.store.Clear(ctx, key(identifier, ip)); err != nil {
		s.logger.WarnContext(ctx, "lockout clear failed", "error", err)
	}
}

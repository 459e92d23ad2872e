package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"condogate/internal/auth/lockout"
	"condogate/internal/auth/models"
	"condogate/internal/platform/metrics"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/sentinel"
	"condogate/pkg/requestcontext"
)

// UserStore is the persistence the identity component needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id domain.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenIssuer signs bearer credentials for authenticated subjects.
type TokenIssuer interface {
	Generate(userID domain.UserID, role models.Role, now time.Time) (string, error)
}

// Service implements login and subject lookup.
type Service struct {
	users   UserStore
	tokens  TokenIssuer
	lockout *lockout.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLockout(l *lockout.Service) Option {
	return func(s *Service) { s.lockout = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the auth service.
func New(users UserStore, tokens TokenIssuer, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{users: users, tokens: tokens, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginResult carries the signed credential and the subject it names.
type LoginResult struct {
	Token string
	User  *models.User
}

// Login verifies the password for the email's user and issues a signed
// credential. Unknown email and wrong password produce the same outcome
// so the endpoint cannot be used to enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email and password are required")
	}
	if s.metrics != nil {
		s.metrics.LoginAttempts.Inc()
	}

	now := requestcontext.Now(ctx)
	if s.lockout != nil {
		if allowed, retryAfter := s.lockout.Allow(ctx, email, clientIP, now); !allowed {
			s.logAudit(ctx, "login_locked_out", "email", email, "retry_after_s", int(retryAfter.Seconds()))
			return nil, dErrors.New(dErrors.CodeTooManyRequests, "too many failed attempts, try again later")
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.failLogin(ctx, email, clientIP, now)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, s.failLogin(ctx, email, clientIP, now)
	}

	signed, err := s.tokens.Generate(user.ID, user.Role, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign credential")
	}

	if s.lockout != nil {
		s.lockout.Clear(ctx, email, clientIP)
	}
	s.logAudit(ctx, "login_succeeded", "user_id", user.ID.String(), "role", string(user.Role))
	return &LoginResult{Token: signed, User: user}, nil
}

func (s *Service) failLogin(ctx context.Context, email, clientIP string, now time.Time) error {
	if s.metrics != nil {
		s.metrics.LoginFailures.Inc()
	}
	if s.lockout != nil {
		s.lockout.RecordFailure(ctx, email, clientIP, now)
	}
	s.logAudit(ctx, "login_failed", "email", email)
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

// Me returns the authenticated subject's profile.
func (s *Service) Me(ctx context.Context, id domain.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

// SeedAdmin creates a bootstrap ADMIN user unless the email is already
// registered. Existence is checked before insert; a concurrent insert
// landing in between is absorbed by the email unique constraint.
func (s *Service) SeedAdmin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check bootstrap admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash bootstrap password")
	}

	user, err := models.NewUser(domain.NewUserID(), "Administrator", email, string(hash), models.RoleAdmin, time.Now())
	if err != nil {
		return err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create bootstrap admin")
	}
	s.logAudit(ctx, "bootstrap_admin_created", "user_id", user.ID.String())
	return nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

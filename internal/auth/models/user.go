package models

import (
	"strings"
	"time"

	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
)

// Role is the closed set of credential roles. Every authorization decision
// matches exhaustively against these three values; unknown strings are
// rejected at the trust boundary by ParseRole.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleResident Role = "RESIDENT"
)

// ParseRole validates a role string read from a token or a stored row.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleResident:
		return Role(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}
}

// CanWrite reports whether the role may create or update entities.
func (r Role) CanWrite() bool {
	switch r {
	case RoleAdmin, RoleManager:
		return true
	case RoleResident:
		return false
	}
	return false
}

// CanDelete reports whether the role may delete entities.
func (r Role) CanDelete() bool {
	return r == RoleAdmin
}

// User is a credential subject. It is used only by the identity component
// and is not entangled with the domain entities.
//
// Invariants:
//   - Email is globally unique (users_email_key)
//   - Role is one of the closed Role set
type User struct {
	ID           domain.UserID `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Role         Role          `json:"role"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewUser constructs a User, validating invariants.
func NewUser(id domain.UserID, name, email, passwordHash string, role Role, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user name cannot be empty")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user email cannot be empty")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user password hash cannot be empty")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user role must be ADMIN, MANAGER, or RESIDENT")
	}
	return &User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
	}, nil
}

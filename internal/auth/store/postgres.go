package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"condogate/internal/auth/models"
	"condogate/internal/platform/postgres"
	"condogate/pkg/domain"
	"condogate/pkg/platform/sentinel"
)

// Postgres persists users in the users table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, user *models.User) error {
	const query = `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(user.ID), user.Name, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "users_email_key") {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.UserID) (*models.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE id = $1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE email = $1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, email))
}

func (s *Postgres) scanOne(row *sql.Row) (*models.User, error) {
	var (
		user models.User
		id   uuid.UUID
		role string
	)
	err := row.Scan(&id, &user.Name, &user.Email, &user.PasswordHash, &role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.ID = domain.UserID(id)
	user.Role = models.Role(role)
	return &user, nil
}

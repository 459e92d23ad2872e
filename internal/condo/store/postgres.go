package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"condogate/internal/condo/models"
	"condogate/internal/platform/postgres"
	"condogate/pkg/domain"
	"condogate/pkg/platform/sentinel"
)

// Postgres persists condominiums in the condominiums table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, condo *models.Condo) error {
	const query = `
		INSERT INTO condominiums (id, tenant_id, name, cnpj, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(condo.ID), condo.TenantID, condo.Name, condo.CNPJ, condo.CreatedAt, condo.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "condominiums_cnpj_key") {
			return ErrCNPJTaken
		}
		return fmt.Errorf("insert condominium: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, tenantID string, id domain.CondoID) (*models.Condo, error) {
	const query = `
		SELECT id, tenant_id, name, cnpj, created_at, updated_at
		FROM condominiums WHERE id = $1 AND tenant_id = $2
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(id), tenantID))
}

func (s *Postgres) List(ctx context.Context, tenantID string, filter ListFilter) ([]models.Condo, int, error) {
	where := "WHERE tenant_id = $1"
	args := []any{tenantID}
	if filter.Query != "" {
		where += " AND (name ILIKE $2 OR cnpj LIKE $2)"
		args = append(args, "%"+filter.Query+"%")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM condominiums " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count condominiums: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, tenant_id, name, cnpj, created_at, updated_at
		FROM condominiums %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Page.Limit(), filter.Page.Offset())

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list condominiums: %w", err)
	}
	defer rows.Close()

	var condos []models.Condo
	for rows.Next() {
		var (
			condo models.Condo
			id    uuid.UUID
		)
		if err := rows.Scan(&id, &condo.TenantID, &condo.Name, &condo.CNPJ, &condo.CreatedAt, &condo.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan condominium: %w", err)
		}
		condo.ID = domain.CondoID(id)
		condos = append(condos, condo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate condominiums: %w", err)
	}
	return condos, total, nil
}

func (s *Postgres) Update(ctx context.Context, condo *models.Condo) error {
	const query = `
		UPDATE condominiums
		SET name = $1, cnpj = $2, updated_at = $3
		WHERE id = $4 AND tenant_id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		condo.Name, condo.CNPJ, condo.UpdatedAt, uuid.UUID(condo.ID), condo.TenantID,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "condominiums_cnpj_key") {
			return ErrCNPJTaken
		}
		return fmt.Errorf("update condominium: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update condominium: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Delete removes the row. RESTRICT foreign keys on units, residents and
// visitor_entries reject the delete while children still point here.
func (s *Postgres) Delete(ctx context.Context, tenantID string, id domain.CondoID) error {
	const query = `DELETE FROM condominiums WHERE id = $1 AND tenant_id = $2`
	result, err := s.db.ExecContext(ctx, query, uuid.UUID(id), tenantID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete condominium: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete condominium: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) scanOne(row *sql.Row) (*models.Condo, error) {
	var (
		condo models.Condo
		id    uuid.UUID
	)
	err := row.Scan(&id, &condo.TenantID, &condo.Name, &condo.CNPJ, &condo.CreatedAt, &condo.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan condominium: %w", err)
	}
	condo.ID = domain.CondoID(id)
	return &condo, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"condogate/internal/platform/postgres"
	"condogate/internal/unit/models"
	"condogate/pkg/domain"
	"condogate/pkg/platform/sentinel"
)

// Postgres persists units in the units table. Block is stored as an empty
// string rather than NULL to keep comparisons simple.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, unit *models.Unit) error {
	const query = `
		INSERT INTO units (id, condo_id, number, block, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(unit.ID), uuid.UUID(unit.CondoID), unit.Number, unit.Block, unit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.UnitID) (*models.Unit, error) {
	const query = `
		SELECT id, condo_id, number, block, created_at
		FROM units WHERE id = $1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Postgres) List(ctx context.Context, filter ListFilter) ([]models.Unit, int, error) {
	where := "WHERE 1=1"
	var args []any
	if filter.CondoID != nil {
		args = append(args, uuid.UUID(*filter.CondoID))
		where += fmt.Sprintf(" AND condo_id = $%d", len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += fmt.Sprintf(" AND (number ILIKE $%d OR block ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM units "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count units: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, condo_id, number, block, created_at
		FROM units %s
		ORDER BY block ASC, number ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Page.Limit(), filter.Page.Offset())

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []models.Unit
	for rows.Next() {
		var (
			unit    models.Unit
			id      uuid.UUID
			condoID uuid.UUID
		)
		if err := rows.Scan(&id, &condoID, &unit.Number, &unit.Block, &unit.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan unit: %w", err)
		}
		unit.ID = domain.UnitID(id)
		unit.CondoID = domain.CondoID(condoID)
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate units: %w", err)
	}
	return units, total, nil
}

func (s *Postgres) Update(ctx context.Context, unit *models.Unit) error {
	const query = `
		UPDATE units SET number = $1, block = $2 WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, unit.Number, unit.Block, uuid.UUID(unit.ID))
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Delete removes the row. The RESTRICT foreign key from residents rejects
// the delete while the unit is occupied.
func (s *Postgres) Delete(ctx context.Context, id domain.UnitID) error {
	const query = `DELETE FROM units WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, uuid.UUID(id))
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete unit: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) CountByCondo(ctx context.Context, condoID domain.CondoID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM units WHERE condo_id = $1", uuid.UUID(condoID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count units by condo: %w", err)
	}
	return count, nil
}

func (s *Postgres) scanOne(row *sql.Row) (*models.Unit, error) {
	var (
		unit    models.Unit
		id      uuid.UUID
		condoID uuid.UUID
	)
	err := row.Scan(&id, &condoID, &unit.Number, &unit.Block, &unit.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan unit: %w", err)
	}
	unit.ID = domain.UnitID(id)
	unit.CondoID = domain.CondoID(condoID)
	return &unit, nil
}

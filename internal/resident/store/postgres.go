package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"condogate/internal/platform/postgres"
	"condogate/internal/resident/models"
	"condogate/pkg/domain"
	"condogate/pkg/platform/sentinel"
)

// Postgres persists residents in the residents table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, resident *models.Resident) error {
	const query = `
		INSERT INTO residents (id, condo_id, unit_id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(resident.ID), uuid.UUID(resident.CondoID), unitArg(resident.UnitID),
		resident.Name, resident.Email, resident.Phone, resident.CreatedAt, resident.UpdatedAt,
	)
	if err != nil {
		return translateConflict(err, "insert resident")
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.ResidentID) (*models.Resident, error) {
	const query = `
		SELECT id, condo_id, unit_id, name, email, phone, created_at, updated_at
		FROM residents WHERE id = $1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Postgres) List(ctx context.Context, filter ListFilter) ([]models.Resident, int, error) {
	where := "WHERE condo_id = $1"
	args := []any{uuid.UUID(filter.CondoID)}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += " AND (name ILIKE $2 OR email ILIKE $2 OR phone LIKE $2)"
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM residents "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count residents: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, condo_id, unit_id, name, email, phone, created_at, updated_at
		FROM residents %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Page.Limit(), filter.Page.Offset())

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list residents: %w", err)
	}
	defer rows.Close()

	var residents []models.Resident
	for rows.Next() {
		resident, err := scanResident(rows)
		if err != nil {
			return nil, 0, err
		}
		residents = append(residents, *resident)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate residents: %w", err)
	}
	return residents, total, nil
}

func (s *Postgres) Update(ctx context.Context, resident *models.Resident) error {
	const query = `
		UPDATE residents
		SET unit_id = $1, name = $2, email = $3, phone = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		unitArg(resident.UnitID), resident.Name, resident.Email, resident.Phone,
		resident.UpdatedAt, uuid.UUID(resident.ID),
	)
	if err != nil {
		return translateConflict(err, "update resident")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update resident: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id domain.ResidentID) error {
	const query = `DELETE FROM residents WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("delete resident: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete resident: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) CountByCondo(ctx context.Context, condoID domain.CondoID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM residents WHERE condo_id = $1", uuid.UUID(condoID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count residents by condo: %w", err)
	}
	return count, nil
}

func (s *Postgres) OccupantOf(ctx context.Context, unitID domain.UnitID) (domain.ResidentID, bool, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM residents WHERE unit_id = $1", uuid.UUID(unitID),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ResidentID{}, false, nil
		}
		return domain.ResidentID{}, false, fmt.Errorf("find unit occupant: %w", err)
	}
	return domain.ResidentID(id), true, nil
}

func (s *Postgres) UnitOccupied(ctx context.Context, unitID domain.UnitID) (bool, error) {
	_, occupied, err := s.OccupantOf(ctx, unitID)
	return occupied, err
}

func translateConflict(err error, op string) error {
	switch {
	case postgres.IsUniqueViolation(err, "residents_email_key"):
		return ErrEmailTaken
	case postgres.IsUniqueViolation(err, "residents_unit_id_key"):
		return ErrUnitOccupied
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unitArg(id *domain.UnitID) any {
	if id == nil {
		return nil
	}
	return uuid.UUID(*id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResident(row scanner) (*models.Resident, error) {
	var (
		resident models.Resident
		id       uuid.UUID
		condoID  uuid.UUID
		unitID   uuid.NullUUID
	)
	err := row.Scan(&id, &condoID, &unitID, &resident.Name, &resident.Email,
		&resident.Phone, &resident.CreatedAt, &resident.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan resident: %w", err)
	}
	resident.ID = domain.ResidentID(id)
	resident.CondoID = domain.CondoID(condoID)
	if unitID.Valid {
		linked := domain.UnitID(unitID.UUID)
		resident.UnitID = &linked
	}
	return &resident, nil
}

func (s *Postgres) scanOne(row *sql.Row) (*models.Resident, error) {
	return scanResident(row)
}

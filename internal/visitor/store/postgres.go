package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"condogate/internal/visitor/models"
	"condogate/pkg/domain"
	"condogate/pkg/platform/sentinel"
)

// Postgres persists entries in the visitor_entries table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const entryColumns = `
	id, condo_id, unit_id, kind, name, document, plate, phone, email, note,
	carrier, packages, status, handed_off, expected_in_at, expected_out_at,
	check_in_at, check_out_at, approved_at, approved_by, rejection_reason
`

func (s *Postgres) Create(ctx context.Context, entry *models.Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO visitor_entries (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`, entryColumns)
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(entry.ID), uuid.UUID(entry.CondoID), uuidArg(entry.UnitID),
		string(entry.Kind), entry.Name, entry.Document, entry.Plate, entry.Phone,
		entry.Email, entry.Note, entry.Carrier, entry.Packages,
		string(entry.Status), entry.HandedOff, entry.ExpectedInAt, entry.ExpectedOutAt,
		entry.CheckInAt, entry.CheckOutAt, entry.ApprovedAt, userArg(entry.ApprovedBy),
		entry.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.EntryID) (*models.Entry, error) {
	query := fmt.Sprintf("SELECT %s FROM visitor_entries WHERE id = $1", entryColumns)
	return scanEntry(s.db.QueryRowContext(ctx, query, uuid.UUID(id)))
}

// sortColumns whitelists order-by targets; the sort field never reaches
// the SQL string unvalidated.
var sortColumns = map[SortField]string{
	SortByCheckIn:  "check_in_at",
	SortByCheckOut: "check_out_at",
	SortByName:     "name",
}

func (s *Postgres) List(ctx context.Context, filter ListFilter) ([]models.Entry, int, error) {
	where := "WHERE condo_id = $1"
	args := []any{uuid.UUID(filter.CondoID)}

	appendCond := func(condition string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(" AND "+condition, len(args))
	}
	if filter.UnitID != nil {
		appendCond("unit_id = $%d", uuid.UUID(*filter.UnitID))
	}
	if filter.Status != nil {
		appendCond("status = $%d", string(*filter.Status))
	}
	if filter.Kind != nil {
		appendCond("kind = $%d", string(*filter.Kind))
	}
	if filter.From != nil {
		appendCond("check_in_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		appendCond("check_in_at <= $%d", *filter.To)
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (name ILIKE $%d OR document ILIKE $%d OR plate ILIKE $%d)", n, n, n)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visitor_entries "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "check_in_at"
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}
	listQuery := fmt.Sprintf(`
		SELECT %s FROM visitor_entries %s
		ORDER BY %s %s NULLS LAST
		LIMIT $%d OFFSET $%d
	`, entryColumns, where, column, direction, len(args)+1, len(args)+2)
	args = append(args, filter.Page.Limit(), filter.Page.Offset())

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, total, nil
}

func (s *Postgres) Update(ctx context.Context, entry *models.Entry) error {
	const query = `
		UPDATE visitor_entries
		SET unit_id = $1, name = $2, document = $3, plate = $4, phone = $5,
		    email = $6, note = $7, carrier = $8, packages = $9, status = $10,
		    handed_off = $11, expected_in_at = $12, expected_out_at = $13,
		    check_out_at = $14, approved_at = $15, approved_by = $16,
		    rejection_reason = $17
		WHERE id = $18
	`
	result, err := s.db.ExecContext(ctx, query,
		uuidArg(entry.UnitID), entry.Name, entry.Document, entry.Plate, entry.Phone,
		entry.Email, entry.Note, entry.Carrier, entry.Packages, string(entry.Status),
		entry.HandedOff, entry.ExpectedInAt, entry.ExpectedOutAt, entry.CheckOutAt,
		entry.ApprovedAt, userArg(entry.ApprovedBy), entry.RejectionReason,
		uuid.UUID(entry.ID),
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id domain.EntryID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM visitor_entries WHERE id = $1", uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) CountByCondo(ctx context.Context, condoID domain.CondoID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM visitor_entries WHERE condo_id = $1", uuid.UUID(condoID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count entries by condo: %w", err)
	}
	return count, nil
}

func uuidArg(id *domain.UnitID) any {
	if id == nil {
		return nil
	}
	return uuid.UUID(*id)
}

func userArg(id *domain.UserID) any {
	if id == nil {
		return nil
	}
	return uuid.UUID(*id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.Entry, error) {
	var (
		entry      models.Entry
		id         uuid.UUID
		condoID    uuid.UUID
		unitID     uuid.NullUUID
		approvedBy uuid.NullUUID
		kind       string
		status     string
	)
	err := row.Scan(&id, &condoID, &unitID, &kind, &entry.Name, &entry.Document,
		&entry.Plate, &entry.Phone, &entry.Email, &entry.Note,
		&entry.Carrier, &entry.Packages, &status, &entry.HandedOff,
		&entry.ExpectedInAt, &entry.ExpectedOutAt, &entry.CheckInAt,
		&entry.CheckOutAt, &entry.ApprovedAt, &approvedBy, &entry.RejectionReason,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}
	entry.ID = domain.EntryID(id)
	entry.CondoID = domain.CondoID(condoID)
	entry.Kind = models.Kind(kind)
	entry.Status = models.Status(status)
	if unitID.Valid {
		linked := domain.UnitID(unitID.UUID)
		entry.UnitID = &linked
	}
	if approvedBy.Valid {
		by := domain.UserID(approvedBy.UUID)
		entry.ApprovedBy = &by
	}
	return &entry, nil
}

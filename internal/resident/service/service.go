package service

import (
	"context"
	"errors"
	"log/slog"

	condomodels "condogate/internal/condo/models"
	"condogate/internal/platform/metrics"
	"condogate/internal/resident/models"
	"condogate/internal/resident/store"
	unitmodels "condogate/internal/unit/models"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/pagination"
	"condogate/pkg/platform/sentinel"
	"condogate/pkg/requestcontext"
)

// Store is the persistence the occupancy core needs.
type Store interface {
	Create(ctx context.Context, resident *models.Resident) error
	FindByID(ctx context.Context, id domain.ResidentID) (*models.Resident, error)
	List(ctx context.Context, filter store.ListFilter) ([]models.Resident, int, error)
	Update(ctx context.Context, resident *models.Resident) error
	Delete(ctx context.Context, id domain.ResidentID) error
	// OccupantOf backs the link pre-check. The unique constraint on
	// unit_id remains the enforcement of last resort under races.
	OccupantOf(ctx context.Context, unitID domain.UnitID) (domain.ResidentID, bool, error)
}

// CondoDirectory resolves condominiums; satisfied by the condo service.
type CondoDirectory interface {
	Get(ctx context.Context, id domain.CondoID) (*condomodels.Condo, error)
}

// UnitRegistry resolves units; satisfied by the unit service.
type UnitRegistry interface {
	Get(ctx context.Context, id domain.UnitID) (*unitmodels.Unit, error)
}

// Service implements resident management and the one-resident-per-unit
// invariant.
type Service struct {
	store   Store
	condos  CondoDirectory
	units   UnitRegistry
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store Store, condos CondoDirectory, units UnitRegistry, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, condos: condos, units: units, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams carries the fields for a new resident.
type CreateParams struct {
	CondoID domain.CondoID
	UnitID  *domain.UnitID
	Name    string
	Email   string
	Phone   string
}

// Create registers a resident, running the link checks when a unit is
// given.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.Resident, error) {
	if _, err := s.condos.Get(ctx, params.CondoID); err != nil {
		return nil, err
	}

	resident, err := models.NewResident(
		domain.NewResidentID(), params.CondoID,
		params.Name, params.Email, params.Phone,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if params.UnitID != nil {
		if err := s.checkLink(ctx, resident, *params.UnitID); err != nil {
			return nil, err
		}
		resident.UnitID = params.UnitID
	}

	if err := s.store.Create(ctx, resident); err != nil {
		return nil, translateWriteError(err, "failed to create resident")
	}

	if s.metrics != nil && resident.UnitID != nil {
		s.metrics.ResidentsLinked.Inc()
	}
	s.logAudit(ctx, "resident_created",
		"resident_id", resident.ID.String(),
		"condo_id", resident.CondoID.String(),
		"linked", resident.UnitID != nil,
	)
	return resident, nil
}

// Get fetches one resident.
func (s *Service) Get(ctx context.Context, id domain.ResidentID) (*models.Resident, error) {
	resident, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "resident not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load resident")
	}
	return resident, nil
}

// List pages residents of one condominium.
func (s *Service) List(ctx context.Context, condoID domain.CondoID, query string, page pagination.Params) ([]models.Resident, int, error) {
	residents, total, err := s.store.List(ctx, store.ListFilter{CondoID: condoID, Query: query, Page: page})
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list residents")
	}
	return residents, total, nil
}

// UpdatePatch carries the partial-update fields. UnitSet distinguishes an
// absent unitId (keep) from an explicit null (unlink).
type UpdatePatch struct {
	Name    *string
	Email   *string
	Phone   *string
	UnitID  *domain.UnitID
	UnitSet bool
}

// Update applies a partial update. Patching unitId to a value runs the
// link checks; a bad unit reference on a patch is a validation failure.
// Patching unitId to null unlinks unconditionally.
func (s *Service) Update(ctx context.Context, id domain.ResidentID, patch UpdatePatch) (*models.Resident, error) {
	resident, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := resident.SetName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Email != nil {
		if err := resident.SetEmail(*patch.Email); err != nil {
			return nil, err
		}
	}
	if patch.Phone != nil {
		resident.SetPhone(*patch.Phone)
	}
	if patch.UnitSet {
		if patch.UnitID != nil {
			if err := s.checkLink(ctx, resident, *patch.UnitID); err != nil {
				return nil, err
			}
		}
		resident.UnitID = patch.UnitID
	}
	resident.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, resident); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "resident not found")
		}
		return nil, translateWriteError(err, "failed to update resident")
	}

	if s.metrics != nil && patch.UnitSet && patch.UnitID != nil {
		s.metrics.ResidentsLinked.Inc()
	}

	s.logAudit(ctx, "resident_updated",
		"resident_id", resident.ID.String(),
		"linked", resident.UnitID != nil,
	)
	return resident, nil
}

// Delete removes a resident, releasing any unit they held.
func (s *Service) Delete(ctx context.Context, id domain.ResidentID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "resident not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete resident")
	}
	s.logAudit(ctx, "resident_deleted", "resident_id", id.String())
	return nil
}

// checkLink runs the ordered link checks: unit exists, unit belongs to
// the resident's condominium, unit is free (or held by this resident).
// A unitId that resolves to nothing is a bad reference on the payload,
// not a missing target resource.
func (s *Service) checkLink(ctx context.Context, resident *models.Resident, unitID domain.UnitID) error {
	unit, err := s.units.Get(ctx, unitID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeValidation, "unit not found")
		}
		return err
	}
	if unit.CondoID != resident.CondoID {
		return dErrors.New(dErrors.CodeValidation, "unit belongs to a different condominium")
	}

	occupant, occupied, err := s.store.OccupantOf(ctx, unitID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check unit occupancy")
	}
	if occupied && occupant != resident.ID {
		return dErrors.New(dErrors.CodeConflict, "unit already occupied")
	}
	return nil
}

func translateWriteError(err error, internalMsg string) error {
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		return dErrors.New(dErrors.CodeConflict, "email already registered")
	case errors.Is(err, store.ErrUnitOccupied):
		return dErrors.New(dErrors.CodeConflict, "unit already occupied")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

package service

import (
	"context"
	"errors"
	"log/slog"

	condomodels "condogate/internal/condo/models"
	"condogate/internal/platform/metrics"
	"condogate/internal/unit/models"
	"condogate/internal/unit/store"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/pagination"
	"condogate/pkg/platform/sentinel"
	"condogate/pkg/requestcontext"
)

// Store is the persistence the unit registry needs.
type Store interface {
	Create(ctx context.Context, unit *models.Unit) error
	FindByID(ctx context.Context, id domain.UnitID) (*models.Unit, error)
	List(ctx context.Context, filter store.ListFilter) ([]models.Unit, int, error)
	Update(ctx context.Context, unit *models.Unit) error
	Delete(ctx context.Context, id domain.UnitID) error
}

// CondoDirectory resolves condominiums; satisfied by the condo service.
type CondoDirectory interface {
	Get(ctx context.Context, id domain.CondoID) (*condomodels.Condo, error)
}

// OccupancyChecker reports whether a resident currently holds a unit;
// satisfied by the resident stores.
type OccupancyChecker interface {
	UnitOccupied(ctx context.Context, unitID domain.UnitID) (bool, error)
}

// Service implements the unit registry operations.
type Service struct {
	store     Store
	condos    CondoDirectory
	occupancy OccupancyChecker
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

// WithOccupancyChecker wires the delete guard that refuses to drop an
// occupied unit.
func WithOccupancyChecker(checker OccupancyChecker) Option {
	return func(s *Service) { s.occupancy = checker }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store Store, condos CondoDirectory, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, condos: condos, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a unit inside an existing condominium.
func (s *Service) Create(ctx context.Context, condoID domain.CondoID, number, block string) (*models.Unit, error) {
	if _, err := s.condos.Get(ctx, condoID); err != nil {
		return nil, err
	}

	unit, err := models.NewUnit(domain.NewUnitID(), condoID, number, block, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, unit); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create unit")
	}

	if s.metrics != nil {
		s.metrics.UnitsCreated.Inc()
	}
	s.logAudit(ctx, "unit_created", "unit_id", unit.ID.String(), "condo_id", condoID.String())
	return unit, nil
}

// Get fetches one unit.
func (s *Service) Get(ctx context.Context, id domain.UnitID) (*models.Unit, error) {
	unit, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "unit not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load unit")
	}
	return unit, nil
}

// List pages units, optionally scoped to one condominium.
func (s *Service) List(ctx context.Context, condoID *domain.CondoID, query string, page pagination.Params) ([]models.Unit, int, error) {
	units, total, err := s.store.List(ctx, store.ListFilter{CondoID: condoID, Query: query, Page: page})
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list units")
	}
	return units, total, nil
}

// UpdatePatch carries the partial-update fields. Nil means keep. The
// condominium link is immutable and deliberately absent here.
type UpdatePatch struct {
	Number *string
	Block  *string
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id domain.UnitID, patch UpdatePatch) (*models.Unit, error) {
	unit, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Number != nil {
		if err := unit.SetNumber(*patch.Number); err != nil {
			return nil, err
		}
	}
	if patch.Block != nil {
		unit.SetBlock(*patch.Block)
	}

	if err := s.store.Update(ctx, unit); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "unit not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update unit")
	}

	s.logAudit(ctx, "unit_updated", "unit_id", unit.ID.String())
	return unit, nil
}

// Delete removes a unit. Occupied units cannot be deleted; the occupancy
// pre-check is the fast path, the database RESTRICT foreign key the
// backstop.
func (s *Service) Delete(ctx context.Context, id domain.UnitID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if s.occupancy != nil {
		occupied, err := s.occupancy.UnitOccupied(ctx, id)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check unit occupancy")
		}
		if occupied {
			return dErrors.New(dErrors.CodeConflict, "unit is occupied")
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, store.ErrInUse):
			return dErrors.New(dErrors.CodeConflict, "unit is occupied")
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "unit not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete unit")
	}

	s.logAudit(ctx, "unit_deleted", "unit_id", id.String())
	return nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

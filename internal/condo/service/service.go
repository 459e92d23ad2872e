package service

import (
	"context"
	"errors"
	"log/slog"

	"condogate/internal/condo/models"
	"condogate/internal/condo/store"
	"condogate/internal/platform/metrics"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/pagination"
	"condogate/pkg/platform/sentinel"
	"condogate/pkg/requestcontext"
)

// Store is the persistence the condominium directory needs.
type Store interface {
	Create(ctx context.Context, condo *models.Condo) error
	FindByID(ctx context.Context, tenantID string, id domain.CondoID) (*models.Condo, error)
	List(ctx context.Context, tenantID string, filter store.ListFilter) ([]models.Condo, int, error)
	Update(ctx context.Context, condo *models.Condo) error
	Delete(ctx context.Context, tenantID string, id domain.CondoID) error
}

// ChildCounter counts rows of a dependent entity scoped to one condominium.
// The unit, resident and visitor stores each provide one.
type ChildCounter interface {
	CountByCondo(ctx context.Context, condoID domain.CondoID) (int, error)
}

// Counters is the per-condominium dependent-record summary.
type Counters struct {
	Units     int `json:"units"`
	Residents int `json:"residents"`
}

// Service implements the condominium directory operations.
type Service struct {
	store          Store
	unitCounts     ChildCounter
	residentCounts ChildCounter
	entryCounts    ChildCounter
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

type Option func(*Service)

// WithChildCounters wires the dependent-record counters used by the
// counters endpoint and the delete guard.
func WithChildCounters(units, residents, entries ChildCounter) Option {
	return func(s *Service) {
		s.unitCounts = units
		s.residentCounts = residents
		s.entryCounts = entries
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a condominium.
func (s *Service) Create(ctx context.Context, name, cnpj string) (*models.Condo, error) {
	condo, err := models.NewCondo(
		domain.NewCondoID(),
		requestcontext.Tenant(ctx),
		name,
		cnpj,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, condo); err != nil {
		if errors.Is(err, store.ErrCNPJTaken) {
			return nil, dErrors.New(dErrors.CodeConflict, "cnpj already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create condominium")
	}

	if s.metrics != nil {
		s.metrics.CondosCreated.Inc()
	}
	s.logAudit(ctx, "condo_created", "condo_id", condo.ID.String(), "cnpj", condo.CNPJ)
	return condo, nil
}

// Get fetches one condominium.
func (s *Service) Get(ctx context.Context, id domain.CondoID) (*models.Condo, error) {
	condo, err := s.store.FindByID(ctx, requestcontext.Tenant(ctx), id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "condominium not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load condominium")
	}
	return condo, nil
}

// List pages condominiums matching the optional substring query.
func (s *Service) List(ctx context.Context, query string, page pagination.Params) ([]models.Condo, int, error) {
	condos, total, err := s.store.List(ctx, requestcontext.Tenant(ctx), store.ListFilter{Query: query, Page: page})
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list condominiums")
	}
	return condos, total, nil
}

// UpdatePatch carries the partial-update fields. Nil means keep.
type UpdatePatch struct {
	Name *string
	CNPJ *string
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id domain.CondoID, patch UpdatePatch) (*models.Condo, error) {
	condo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := condo.SetName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.CNPJ != nil {
		if err := condo.SetCNPJ(*patch.CNPJ); err != nil {
			return nil, err
		}
	}
	condo.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, condo); err != nil {
		switch {
		case errors.Is(err, store.ErrCNPJTaken):
			return nil, dErrors.New(dErrors.CodeConflict, "cnpj already registered")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "condominium not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update condominium")
	}

	s.logAudit(ctx, "condo_updated", "condo_id", condo.ID.String())
	return condo, nil
}

// Delete removes a condominium. The delete is blocked while any unit,
// resident or visitor entry still references it; the counter pre-check is
// the fast path, the database RESTRICT foreign keys the backstop.
func (s *Service) Delete(ctx context.Context, id domain.CondoID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	for _, counter := range []ChildCounter{s.unitCounts, s.residentCounts, s.entryCounts} {
		if counter == nil {
			continue
		}
		count, err := counter.CountByCondo(ctx, id)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check dependent records")
		}
		if count > 0 {
			return dErrors.New(dErrors.CodeConflict, "condominium has dependent records")
		}
	}

	if err := s.store.Delete(ctx, requestcontext.Tenant(ctx), id); err != nil {
		switch {
		case errors.Is(err, store.ErrInUse):
			return dErrors.New(dErrors.CodeConflict, "condominium has dependent records")
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "condominium not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete condominium")
	}

	s.logAudit(ctx, "condo_deleted", "condo_id", id.String())
	return nil
}

// CountChildren reports how many units and residents a condominium has.
func (s *Service) CountChildren(ctx context.Context, id domain.CondoID) (*Counters, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	counters := &Counters{}
	if s.unitCounts != nil {
		n, err := s.unitCounts.CountByCondo(ctx, id)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count units")
		}
		counters.Units = n
	}
	if s.residentCounts != nil {
		n, err := s.residentCounts.CountByCondo(ctx, id)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count residents")
		}
		counters.Residents = n
	}
	return counters, nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	condomodels "condogate/internal/condo/models"
	"condogate/internal/platform/metrics"
	unitmodels "condogate/internal/unit/models"
	"condogate/internal/visitor/models"
	"condogate/internal/visitor/store"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
	"condogate/pkg/platform/sentinel"
	"condogate/pkg/requestcontext"
)

// Store is the persistence the visitor lifecycle needs.
type Store interface {
	Create(ctx context.Context, entry *models.Entry) error
	FindByID(ctx context.Context, id domain.EntryID) (*models.Entry, error)
	List(ctx context.Context, filter store.ListFilter) ([]models.Entry, int, error)
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, id domain.EntryID) error
}

// CondoDirectory resolves condominiums; satisfied by the condo service.
type CondoDirectory interface {
	Get(ctx context.Context, id domain.CondoID) (*condomodels.Condo, error)
}

// UnitRegistry resolves units; satisfied by the unit service.
type UnitRegistry interface {
	Get(ctx context.Context, id domain.UnitID) (*unitmodels.Unit, error)
}

// Service implements the gate entry lifecycle.
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

// CreateParams carries the fields for a new entry. Status is not among
// them; every entry starts PENDING. CheckInAt falls back to the request
// clock when the gate does not supply one.
type CreateParams struct {
	CondoID       domain.CondoID
	UnitID        *domain.UnitID
	Kind          models.Kind
	Name          string
	Document      string
	Plate         string
	Phone         string
	Email         string
	Note          string
	Carrier       string
	Packages      int
	CheckInAt     *time.Time
	ExpectedInAt  *time.Time
	ExpectedOutAt *time.Time
}

// Create registers a gate entry in PENDING.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.Entry, error) {
	if _, err := s.condos.Get(ctx, params.CondoID); err != nil {
		return nil, err
	}

	checkIn := requestcontext.Now(ctx)
	if params.CheckInAt != nil {
		checkIn = *params.CheckInAt
	}
	entry, err := models.NewEntry(domain.NewEntryID(), params.CondoID, params.Kind, params.Name, checkIn)
	if err != nil {
		return nil, err
	}

	if params.UnitID != nil {
		if err := s.checkUnit(ctx, params.CondoID, *params.UnitID); err != nil {
			return nil, err
		}
		entry.UnitID = params.UnitID
	}
	entry.Document = params.Document
	entry.Plate = params.Plate
	entry.Phone = params.Phone
	entry.Email = params.Email
	entry.Note = params.Note
	entry.ExpectedInAt = params.ExpectedInAt
	entry.ExpectedOutAt = params.ExpectedOutAt
	entry.SetDelivery(params.Carrier, params.Packages)

	if err := s.store.Create(ctx, entry); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create entry")
	}

	if s.metrics != nil {
		s.metrics.EntriesCreated.Inc()
	}
	s.logAudit(ctx, "entry_created",
		"entry_id", entry.ID.String(),
		"condo_id", entry.CondoID.String(),
		"kind", string(entry.Kind),
	)
	return entry, nil
}

// Get fetches one entry.
func (s *Service) Get(ctx context.Context, id domain.EntryID) (*models.Entry, error) {
	entry, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "entry not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entry")
	}
	return entry, nil
}

// List pages entries of one condominium through the filter matrix.
func (s *Service) List(ctx context.Context, filter store.ListFilter) ([]models.Entry, int, error) {
	entries, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list entries")
	}
	return entries, total, nil
}

// UpdatePatch carries the patchable identification fields. Status and
// lifecycle timestamps are deliberately absent; state changes go through
// the action methods only.
type UpdatePatch struct {
	Name          *string
	Document      *string
	Plate         *string
	Phone         *string
	Email         *string
	Note          *string
	Carrier       *string
	Packages      *int
	ExpectedInAt  *time.Time
	ExpectedOutAt *time.Time
	UnitID        *domain.UnitID
	UnitSet       bool
}

// Update applies a partial update to the identification fields.
func (s *Service) Update(ctx context.Context, id domain.EntryID, patch UpdatePatch) (*models.Entry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := entry.SetName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Document != nil {
		entry.Document = *patch.Document
	}
	if patch.Plate != nil {
		entry.Plate = *patch.Plate
	}
	if patch.Phone != nil {
		entry.Phone = *patch.Phone
	}
	if patch.Email != nil {
		entry.Email = *patch.Email
	}
	if patch.Note != nil {
		entry.Note = *patch.Note
	}
	if patch.ExpectedInAt != nil {
		entry.ExpectedInAt = patch.ExpectedInAt
	}
	if patch.ExpectedOutAt != nil {
		entry.ExpectedOutAt = patch.ExpectedOutAt
	}
	if patch.UnitSet {
		if patch.UnitID != nil {
			if err := s.checkUnit(ctx, entry.CondoID, *patch.UnitID); err != nil {
				return nil, err
			}
		}
		entry.UnitID = patch.UnitID
	}

	carrier := entry.Carrier
	packages := entry.Packages
	if patch.Carrier != nil {
		carrier = *patch.Carrier
	}
	if patch.Packages != nil {
		packages = *patch.Packages
	}
	entry.SetDelivery(carrier, packages)

	if err := s.store.Update(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "entry not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update entry")
	}

	s.logAudit(ctx, "entry_updated", "entry_id", entry.ID.String())
	return entry, nil
}

// Approve moves a PENDING entry to APPROVED, stamping the acting user.
func (s *Service) Approve(ctx context.Context, id domain.EntryID) (*models.Entry, error) {
	return s.transition(ctx, id, "approve", func(entry *models.Entry) error {
		return entry.Approve(requestcontext.UserID(ctx), requestcontext.Now(ctx))
	})
}

// Reject moves a PENDING entry to REJECTED with an optional reason.
func (s *Service) Reject(ctx context.Context, id domain.EntryID, reason string) (*models.Entry, error) {
	return s.transition(ctx, id, "reject", func(entry *models.Entry) error {
		return entry.Reject(reason)
	})
}

// Checkout closes an entry from any non-terminal state.
func (s *Service) Checkout(ctx context.Context, id domain.EntryID) (*models.Entry, error) {
	return s.transition(ctx, id, "checkout", func(entry *models.Entry) error {
		return entry.Checkout(requestcontext.Now(ctx))
	})
}

// Handoff marks an approved delivery's packages as handed over.
func (s *Service) Handoff(ctx context.Context, id domain.EntryID) (*models.Entry, error) {
	return s.transition(ctx, id, "handoff", func(entry *models.Entry) error {
		return entry.Handoff()
	})
}

// Delete removes an entry regardless of its state.
func (s *Service) Delete(ctx context.Context, id domain.EntryID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "entry not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete entry")
	}
	s.logAudit(ctx, "entry_deleted", "entry_id", id.String())
	return nil
}

func (s *Service) transition(ctx context.Context, id domain.EntryID, action string, apply func(*models.Entry) error) (*models.Entry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(entry); err != nil {
		s.countTransition(action, "rejected")
		return nil, err
	}
	if err := s.store.Update(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "entry not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist transition")
	}

	s.countTransition(action, "ok")
	s.logAudit(ctx, "entry_"+action,
		"entry_id", entry.ID.String(),
		"status", string(entry.Status),
	)
	return entry, nil
}

func (s *Service) countTransition(action, outcome string) {
	if s.metrics != nil {
		s.metrics.EntryTransitions.WithLabelValues(action, outcome).Inc()
	}
}

// checkUnit verifies the referenced unit exists and belongs to the
// entry's condominium. Both failures are bad references on the payload.
func (s *Service) checkUnit(ctx context.Context, condoID domain.CondoID, unitID domain.UnitID) error {
	unit, err := s.units.Get(ctx, unitID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeValidation, "unit not found")
		}
		return err
	}
	if unit.CondoID != condoID {
		return dErrors.New(dErrors.CodeValidation, "unit belongs to a different condominium")
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

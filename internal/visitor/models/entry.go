package models

import (
	"strings"
	"time"

	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
)

// Kind classifies a gate entry.
type Kind string

const (
	KindVisitor  Kind = "VISITOR"
	KindDelivery Kind = "DELIVERY"
	KindService  Kind = "SERVICE"
)

// ParseKind validates a kind string read from a request or a stored row.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindVisitor, KindDelivery, KindService:
		return Kind(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "kind must be VISITOR, DELIVERY, or SERVICE")
	}
}

// Status is a lifecycle state. CHECKED_OUT is the only terminal state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
	StatusCheckedOut Status = "CHECKED_OUT"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCheckedOut:
		return Status(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown status")
	}
}

// Entry is one gate pass through its lifecycle:
//
//	PENDING --approve--> APPROVED --handoff (DELIVERY)--> APPROVED(handedOff)
//	PENDING --reject---> REJECTED
//	any non-terminal ----checkout--> CHECKED_OUT
type Entry struct {
	ID              domain.EntryID `json:"id"`
	CondoID         domain.CondoID `json:"condoId"`
	UnitID          *domain.UnitID `json:"unitId"`
	Kind            Kind           `json:"kind"`
	Name            string         `json:"name"`
	Document        string         `json:"document,omitempty"`
	Plate           string         `json:"plate,omitempty"`
	Phone           string         `json:"phone,omitempty"`
	Email           string         `json:"email,omitempty"`
	Note            string         `json:"note,omitempty"`
	Carrier         string         `json:"carrier,omitempty"`
	Packages        int            `json:"packages,omitempty"`
	Status          Status         `json:"status"`
	HandedOff       bool           `json:"handedOff"`
	ExpectedInAt    *time.Time     `json:"expectedInAt"`
	ExpectedOutAt   *time.Time     `json:"expectedOutAt"`
	CheckInAt       time.Time      `json:"checkInAt"`
	CheckOutAt      *time.Time     `json:"checkOutAt"`
	ApprovedAt      *time.Time     `json:"approvedAt"`
	ApprovedBy      *domain.UserID `json:"approvedBy"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
}

// NewEntry constructs an Entry. Every entry starts PENDING regardless of
// what the caller sent; carrier and packages are meaningful for
// deliveries only and are dropped for other kinds.
func NewEntry(id domain.EntryID, condoID domain.CondoID, kind Kind, name string, now time.Time) (*Entry, error) {
	if condoID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "condoId is required")
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	e := &Entry{
		ID:        id,
		CondoID:   condoID,
		Kind:      kind,
		Status:    StatusPending,
		CheckInAt: now,
	}
	if err := e.SetName(name); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Entry) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return dErrors.New(dErrors.CodeValidation, "entry name cannot be empty")
	}
	e.Name = name
	return nil
}

// SetDelivery records carrier and package count, clearing both when the
// entry is not a delivery.
func (e *Entry) SetDelivery(carrier string, packages int) {
	if e.Kind != KindDelivery {
		e.Carrier = ""
		e.Packages = 0
		return
	}
	e.Carrier = strings.TrimSpace(carrier)
	if packages < 0 {
		packages = 0
	}
	e.Packages = packages
}

// CanApprove reports whether the entry may be approved.
func (e *Entry) CanApprove() error {
	if e.Status != StatusPending {
		return dErrors.Newf(dErrors.CodeConflict, "cannot approve entry in status %s", e.Status)
	}
	return nil
}

// Approve moves PENDING to APPROVED, recording who approved and when.
func (e *Entry) Approve(by domain.UserID, now time.Time) error {
	if err := e.CanApprove(); err != nil {
		return err
	}
	e.Status = StatusApproved
	e.ApprovedAt = &now
	e.ApprovedBy = &by
	return nil
}

// CanReject reports whether the entry may be rejected.
func (e *Entry) CanReject() error {
	if e.Status != StatusPending {
		return dErrors.Newf(dErrors.CodeConflict, "cannot reject entry in status %s", e.Status)
	}
	return nil
}

// Reject moves PENDING to REJECTED with an optional reason.
func (e *Entry) Reject(reason string) error {
	if err := e.CanReject(); err != nil {
		return err
	}
	e.Status = StatusRejected
	e.RejectionReason = strings.TrimSpace(reason)
	return nil
}

// CanCheckout reports whether the entry may be checked out.
func (e *Entry) CanCheckout() error {
	if e.Status == StatusCheckedOut {
		return dErrors.New(dErrors.CodeConflict, "entry is already checked out")
	}
	return nil
}

// Checkout closes the entry from any non-terminal state.
func (e *Entry) Checkout(now time.Time) error {
	if err := e.CanCheckout(); err != nil {
		return err
	}
	e.Status = StatusCheckedOut
	e.CheckOutAt = &now
	return nil
}

// CanHandoff reports whether the packages may be handed over.
func (e *Entry) CanHandoff() error {
	if e.Kind != KindDelivery {
		return dErrors.New(dErrors.CodeConflict, "handoff applies to deliveries only")
	}
	if e.Status != StatusApproved {
		return dErrors.Newf(dErrors.CodeConflict, "cannot hand off entry in status %s", e.Status)
	}
	if e.HandedOff {
		return dErrors.New(dErrors.CodeConflict, "delivery already handed off")
	}
	return nil
}

// Handoff marks an approved delivery's packages as handed over. The entry
// stays APPROVED until checkout.
func (e *Entry) Handoff() error {
	if err := e.CanHandoff(); err != nil {
		return err
	}
	e.HandedOff = true
	return nil
}

package models

import (
	"net/mail"
	"strings"
	"time"

	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
)

// Resident is a person registered to a condominium, optionally linked to
// one unit.
//
// Invariants:
//   - Email is globally unique (residents_email_key)
//   - A unit holds at most one resident at any instant (residents_unit_id_key)
//   - A linked unit belongs to the resident's condominium
type Resident struct {
	ID        domain.ResidentID `json:"id"`
	CondoID   domain.CondoID    `json:"condoId"`
	UnitID    *domain.UnitID    `json:"unitId"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewResident constructs a Resident. The unit link is attached by the
// service after the occupancy checks, never here.
func NewResident(id domain.ResidentID, condoID domain.CondoID, name, email, phone string, now time.Time) (*Resident, error) {
	r := &Resident{ID: id, CondoID: condoID, CreatedAt: now, UpdatedAt: now}
	if condoID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "condoId is required")
	}
	if err := r.SetName(name); err != nil {
		return nil, err
	}
	if err := r.SetEmail(email); err != nil {
		return nil, err
	}
	r.SetPhone(phone)
	return r, nil
}

func (r *Resident) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return dErrors.New(dErrors.CodeValidation, "resident name cannot be empty")
	}
	r.Name = name
	return nil
}

func (r *Resident) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return dErrors.New(dErrors.CodeValidation, "resident email is not a valid address")
	}
	r.Email = email
	return nil
}

func (r *Resident) SetPhone(phone string) {
	r.Phone = strings.TrimSpace(phone)
}

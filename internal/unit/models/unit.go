package models

import (
	"strings"
	"time"

	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
)

// Unit is a dwelling inside a condominium. The condominium link is fixed
// at creation; units do not move between buildings.
type Unit struct {
	ID        domain.UnitID  `json:"id"`
	CondoID   domain.CondoID `json:"condoId"`
	Number    string         `json:"number"`
	Block     string         `json:"block,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NewUnit constructs a Unit. Number+block duplicates inside one
// condominium are tolerated; towers reuse door numbers.
func NewUnit(id domain.UnitID, condoID domain.CondoID, number, block string, now time.Time) (*Unit, error) {
	u := &Unit{ID: id, CondoID: condoID, CreatedAt: now}
	if condoID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "condoId is required")
	}
	if err := u.SetNumber(number); err != nil {
		return nil, err
	}
	u.SetBlock(block)
	return u, nil
}

// SetNumber updates the door number, which cannot be blank.
func (u *Unit) SetNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return dErrors.New(dErrors.CodeValidation, "unit number cannot be empty")
	}
	u.Number = number
	return nil
}

// SetBlock updates the optional block/tower label.
func (u *Unit) SetBlock(block string) {
	u.Block = strings.TrimSpace(block)
}

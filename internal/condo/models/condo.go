package models

import (
	"strings"
	"time"

	"condogate/pkg/cnpj"
	"condogate/pkg/domain"
	dErrors "condogate/pkg/domain-errors"
)

// Condo is a managed condominium, the root every unit, resident and
// visitor entry hangs off.
//
// Invariants:
//   - CNPJ is a checksum-valid 14-digit registry number, unique per
//     deployment (condominiums_cnpj_key)
//   - Name has at least two characters after trimming
type Condo struct {
	ID        domain.CondoID `json:"id"`
	TenantID  string         `json:"-"`
	Name      string         `json:"name"`
	CNPJ      string         `json:"cnpj"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewCondo constructs a Condo, validating invariants. The CNPJ is stored
// normalized to bare digits.
func NewCondo(id domain.CondoID, tenantID, name, rawCNPJ string, now time.Time) (*Condo, error) {
	c := &Condo{
		ID:        id,
		TenantID:  tenantID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.SetName(name); err != nil {
		return nil, err
	}
	if err := c.SetCNPJ(rawCNPJ); err != nil {
		return nil, err
	}
	return c, nil
}

// SetName updates the name, enforcing the minimum length.
func (c *Condo) SetName(name string) error {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return dErrors.New(dErrors.CodeValidation, "condominium name must have at least 2 characters")
	}
	c.Name = name
	return nil
}

// SetCNPJ normalizes and checksum-validates the registry number.
func (c *Condo) SetCNPJ(raw string) error {
	normalized := cnpj.Normalize(raw)
	if !cnpj.Valid(normalized) {
		return dErrors.New(dErrors.CodeValidation, "cnpj is not a valid registry number")
	}
	c.CNPJ = normalized
	return nil
}

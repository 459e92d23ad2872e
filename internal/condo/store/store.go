// Package store persists condominiums. Both implementations surface the
// same sentinel facts so the service layer stays backend-agnostic.
package store

import (
	"fmt"

	"condogate/pkg/platform/pagination"
	"condogate/pkg/platform/sentinel"
)

var (
	// ErrCNPJTaken reports a registry-number collision
	// (condominiums_cnpj_key).
	ErrCNPJTaken = fmt.Errorf("condominium cnpj already registered: %w", sentinel.ErrConflict)
	// ErrInUse reports that units, residents or visitor entries still
	// reference the condominium.
	ErrInUse = fmt.Errorf("condominium has dependent records: %w", sentinel.ErrConflict)
)

// ListFilter narrows and pages a condominium listing.
type ListFilter struct {
	// Query is a case-insensitive substring matched against name and cnpj.
	Query string
	Page  pagination.Params
}

// Package store persists units.
package store

import (
	"fmt"

	"condogate/pkg/domain"
	"condogate/pkg/platform/pagination"
	"condogate/pkg/platform/sentinel"
)

// ErrInUse reports that a resident still occupies the unit.
var ErrInUse = fmt.Errorf("unit is occupied: %w", sentinel.ErrConflict)

// ListFilter narrows and pages a unit listing.
type ListFilter struct {
	// CondoID restricts the listing to one condominium when non-nil.
	CondoID *domain.CondoID
	// Query is a case-insensitive substring matched against number and block.
	Query string
	Page  pagination.Params
}

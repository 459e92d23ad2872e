// Package store persists visitor entries.
package store

import (
	"time"

	"condogate/internal/visitor/models"
	"condogate/pkg/domain"
	"condogate/pkg/platform/pagination"
)

// SortField selects the listing order.
type SortField string

const (
	SortByCheckIn  SortField = "checkInAt"
	SortByCheckOut SortField = "checkOutAt"
	SortByName     SortField = "name"
)

// ListFilter narrows, orders and pages an entry listing. CondoID is
// always set; nil pointers mean "no bound".
type ListFilter struct {
	CondoID domain.CondoID
	UnitID  *domain.UnitID
	// Query is a case-insensitive substring matched against name,
	// document and plate.
	Query  string
	From   *time.Time
	To     *time.Time
	Status *models.Status
	Kind   *models.Kind
	SortBy SortField
	// Ascending flips the default newest-first order.
	Ascending bool
	Page      pagination.Params
}

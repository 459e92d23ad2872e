// Package store persists residents. The unique constraints on email and
// unit_id are the enforcement of last resort for the occupancy invariant;
// both implementations translate violations to the same sentinels.
package store

import (
	"fmt"

	"condogate/pkg/domain"
	"condogate/pkg/platform/pagination"
	"condogate/pkg/platform/sentinel"
)

var (
	// ErrEmailTaken reports an email collision (residents_email_key).
	ErrEmailTaken = fmt.Errorf("resident email already registered: %w", sentinel.ErrConflict)
	// ErrUnitOccupied reports that another resident already holds the
	// unit (residents_unit_id_key).
	ErrUnitOccupied = fmt.Errorf("unit already occupied: %w", sentinel.ErrConflict)
)

// ListFilter narrows and pages a resident listing. CondoID is always set;
// the handler rejects unscoped listings.
type ListFilter struct {
	CondoID domain.CondoID
	// Query is a case-insensitive substring matched against name, email
	// and phone.
	Query string
	Page  pagination.Params
}

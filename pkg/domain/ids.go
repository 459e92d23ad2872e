// Package domain defines typed identifiers for the core entities.
//
// Each ID is a distinct uuid-backed type so a UnitID can never be passed
// where a ResidentID is expected; the compiler enforces the distinction.
// Parse helpers reject empty, malformed, and nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "condogate/pkg/domain-errors"
)

type (
	// UserID identifies a credential subject.
	UserID uuid.UUID
	// CondoID identifies a condominium.
	CondoID uuid.UUID
	// UnitID identifies a physical unit.
	UnitID uuid.UUID
	// ResidentID identifies a resident.
	ResidentID uuid.UUID
	// EntryID identifies a visitor entry.
	EntryID uuid.UUID
)

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id CondoID) String() string    { return uuid.UUID(id).String() }
func (id UnitID) String() string     { return uuid.UUID(id).String() }
func (id ResidentID) String() string { return uuid.UUID(id).String() }
func (id EntryID) String() string    { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CondoID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id UnitID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ResidentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EntryID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs render as plain UUID strings in JSON.
func (id UserID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id CondoID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id UnitID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id ResidentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id EntryID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }
func (id *CondoID) UnmarshalText(b []byte) error    { return unmarshalID((*uuid.UUID)(id), b) }
func (id *UnitID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }
func (id *ResidentID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }
func (id *EntryID) UnmarshalText(b []byte) error    { return unmarshalID((*uuid.UUID)(id), b) }

func unmarshalID(dst *uuid.UUID, b []byte) error {
	parsed, err := parse(string(b))
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewCondoID returns a fresh random CondoID.
func NewCondoID() CondoID { return CondoID(uuid.New()) }

// NewUnitID returns a fresh random UnitID.
func NewUnitID() UnitID { return UnitID(uuid.New()) }

// NewResidentID returns a fresh random ResidentID.
func NewResidentID() ResidentID { return ResidentID(uuid.New()) }

// NewEntryID returns a fresh random EntryID.
func NewEntryID() EntryID { return EntryID(uuid.New()) }

// ParseUserID parses and validates a UserID from its string form.
func ParseUserID(s string) (UserID, error) {
	u, err := parse(s)
	return UserID(u), err
}

// ParseCondoID parses and validates a CondoID from its string form.
func ParseCondoID(s string) (CondoID, error) {
	u, err := parse(s)
	return CondoID(u), err
}

// ParseUnitID parses and validates a UnitID from its string form.
func ParseUnitID(s string) (UnitID, error) {
	u, err := parse(s)
	return UnitID(u), err
}

// ParseResidentID parses and validates a ResidentID from its string form.
func ParseResidentID(s string) (ResidentID, error) {
	u, err := parse(s)
	return ResidentID(u), err
}

// ParseEntryID parses and validates an EntryID from its string form.
func ParseEntryID(s string) (EntryID, error) {
	u, err := parse(s)
	return EntryID(u), err
}

func parse(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}

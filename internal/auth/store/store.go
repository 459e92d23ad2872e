package store

import (
	"fmt"

	"condogate/pkg/platform/sentinel"
)

// ErrEmailTaken is returned when creating a user whose email is already
// registered. It wraps sentinel.ErrConflict so generic conflict handling
// still applies.
var ErrEmailTaken = fmt.Errorf("user email already registered: %w", sentinel.ErrConflict)

package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "condogate/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseCondoID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUnitID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseResidentID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		v := uuid.New()
		id, err := ParseEntryID(v.String())
		require.NoError(t, err)
		assert.Equal(t, EntryID(v), id)
	})
}

func TestIDJSONRoundTrip(t *testing.T) {
	id := NewCondoID()
	text, err := id.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, id.String(), string(text))

	var back CondoID
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, id, back)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	var id UnitID
	require.Error(t, id.UnmarshalText([]byte("'; DROP TABLE residents;--")))
	require.Error(t, id.UnmarshalText([]byte("")))
}

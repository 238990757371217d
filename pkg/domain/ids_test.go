package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "gopass/pkg/domain-errors"
)

func TestParseIDs(t *testing.T) {
	valid := uuid.NewString()

	t.Run("valid UUID round-trips", func(t *testing.T) {
		passID, err := ParsePassID(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, passID.String())
		assert.False(t, passID.IsNil())
	})

	t.Run("empty string rejected", func(t *testing.T) {
		_, err := ParseFlightID("")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("malformed string rejected", func(t *testing.T) {
		_, err := ParseOperatorID("not-a-uuid")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("nil UUID rejected", func(t *testing.T) {
		_, err := ParsePassID(uuid.Nil.String())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestNewIDsAreDistinct(t *testing.T) {
	assert.NotEqual(t, NewPassID(), NewPassID())
	assert.NotEqual(t, NewAuditRecordID(), NewAuditRecordID())
}

package jwtauth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "gopass/pkg/domain"
)

func newTestService() *Service {
	return NewService("test-signing-key", "gopass", "gopass-operators")
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()
	operatorID := id.OperatorID(uuid.New())

	token, err := svc.GenerateOperatorToken(operatorID, "gate", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, operatorID.String(), claims.OperatorID)
	assert.Equal(t, "gate", claims.Role)
}

func TestValidateRejects(t *testing.T) {
	svc := newTestService()
	operatorID := id.OperatorID(uuid.New())

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.GenerateOperatorToken(operatorID, "gate", -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		other := NewService("other-key", "gopass", "gopass-operators")
		token, err := other.GenerateOperatorToken(operatorID, "gate", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		assert.Error(t, err)
	})
}

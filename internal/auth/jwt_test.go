package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "donationdesk/pkg/domain-errors"
)

func TestValidateToken(t *testing.T) {
	svc := NewJWTService("signing-key")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "Pat", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "Pat", claims.Name)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewJWTService("signing-key")

	token, err := svc.GenerateToken(uuid.New(), "Pat", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Equal(t, "token has expired", dErrors.Message(err))
}

func TestValidateTokenWrongKey(t *testing.T) {
	token, err := NewJWTService("key-a").GenerateToken(uuid.New(), "Pat", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTService("key-b").ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := NewJWTService("signing-key").ValidateToken("not.a.token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

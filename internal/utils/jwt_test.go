// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	userID := uuid.New()
	token, err := GenerateJWT(userID, "ana@example.com", "admin", 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "luxbuy", claims.Issuer)
}

func TestValidateJWTRejectsTampered(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(uuid.New(), "ana@example.com", "user", 1)
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("first-secret")
	token, err := GenerateJWT(uuid.New(), "ana@example.com", "user", 1)
	require.NoError(t, err)

	SetJWTSecret("second-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	userID := uuid.New()
	token, err := GenerateRefreshToken(userID, 1)
	require.NoError(t, err)

	subject, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), subject)
}

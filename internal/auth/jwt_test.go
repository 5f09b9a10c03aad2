package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService("test-secret-key-at-least-32-chars!!", 15*time.Minute)
}

func TestGenerateAccessToken(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.GenerateAccessToken("user-123", "test@example.com", "user")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
}

func TestValidateAccessToken_Valid(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.GenerateAccessToken("user-123", "test@example.com", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	svc := NewJWTService("test-secret-key-at-least-32-chars!!", -time.Minute)

	token, _, err := svc.GenerateAccessToken("user-123", "test@example.com", "user")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	svc := newTestService()
	other := NewJWTService("another-secret-key-that-is-different", 15*time.Minute)

	token, _, err := other.GenerateAccessToken("user-123", "test@example.com", "user")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := newTestService()

	_, err := svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

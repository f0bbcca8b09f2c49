package utils

import (
	"testing"
	"time"

	"github.com/neuralfit/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "test-access-secret-that-is-32-chars-long!"
	testRefreshSecret = "test-refresh-secret-that-is-32-chars-long"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "b7a0c6a4-9f0f-4c59-9a35-0f6d4f9be1aa",
		Email: "alice@example.com",
		Role:  domain.RoleUser,
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	m := NewJWTManager(testAccessSecret, testRefreshSecret, 15*time.Minute)

	token, err := m.GenerateAccessToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "b7a0c6a4-9f0f-4c59-9a35-0f6d4f9be1aa", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.False(t, claims.IsExpired())
}

func TestAccessToken_Expired(t *testing.T) {
	m := NewJWTManager(testAccessSecret, testRefreshSecret, -time.Minute)

	token, err := m.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	m := NewJWTManager(testAccessSecret, testRefreshSecret, 15*time.Minute)
	other := NewJWTManager("another-access-secret-32-chars-long!!!!!", testRefreshSecret, 15*time.Minute)

	token, err := m.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessToken_Garbage(t *testing.T) {
	m := NewJWTManager(testAccessSecret, testRefreshSecret, 15*time.Minute)

	_, err := m.VerifyAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshToken_Opaque(t *testing.T) {
	m := NewJWTManager(testAccessSecret, testRefreshSecret, 15*time.Minute)

	tok1, err := m.GenerateRefreshToken()
	require.NoError(t, err)
	tok2, err := m.GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, tok1, 80) // 40 random bytes, hex encoded
	assert.NotEqual(t, tok1, tok2)

	// Opaque tokens must never verify as access tokens.
	_, err = m.VerifyAccessToken(tok1)
	assert.Error(t, err)
}

func TestHashRefreshToken(t *testing.T) {
	m := NewJWTManager(testAccessSecret, testRefreshSecret, 15*time.Minute)
	other := NewJWTManager(testAccessSecret, "a-different-refresh-secret-32-chars-long", 15*time.Minute)

	h1 := m.HashRefreshToken("some-token")
	h2 := m.HashRefreshToken("some-token")
	assert.Equal(t, h1, h2, "hashing must be deterministic")
	assert.NotEqual(t, h1, m.HashRefreshToken("other-token"))
	assert.NotEqual(t, h1, other.HashRefreshToken("some-token"), "hash must depend on the refresh secret")
}

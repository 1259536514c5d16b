package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseTokenPair(t *testing.T) {
	m := NewJWTManager("test-secret", "lifex-api")

	pair, err := m.GenerateTokenPair("user-1", "premium", time.Minute, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	access, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.UserID)
	assert.Equal(t, "premium", access.Tier)
	assert.Equal(t, "access", access.Type)
	assert.Equal(t, "lifex-api", access.Issuer)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh.Type)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", "lifex-api")
	other := NewJWTManager("secret-b", "lifex-api")

	token, err := m.GenerateToken("user-1", "free", "access", time.Minute)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret", "lifex-api")

	token, err := m.GenerateToken("user-1", "free", "access", -time.Minute)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", "lifex-api")

	_, err := m.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

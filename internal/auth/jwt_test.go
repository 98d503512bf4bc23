package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("alice", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "pookiesms", claims.Issuer)
}

func TestParseToken(t *testing.T) {
	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := GenerateToken("alice", testSecret, time.Hour)
		require.NoError(t, err)

		_, err = ParseToken(token, "other-secret")
		assert.Error(t, err)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := GenerateToken("alice", testSecret, -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken(token, testSecret)
		assert.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := ParseToken("not-a-token", testSecret)
		assert.Error(t, err)
	})

	t.Run("token without a username is rejected", func(t *testing.T) {
		token, err := GenerateToken("", testSecret, time.Hour)
		require.NoError(t, err)

		_, err = ParseToken(token, testSecret)
		assert.Error(t, err)
	})
}

func TestTokenProvider(t *testing.T) {
	provider := NewTokenProvider(testSecret)

	t.Run("valid bearer token yields the handle", func(t *testing.T) {
		token, err := GenerateToken("alice", testSecret, time.Hour)
		require.NoError(t, err)

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		username, ok := provider.CurrentPrincipal(r)
		assert.True(t, ok)
		assert.Equal(t, "alice", username)
	})

	t.Run("missing header means no principal", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)

		_, ok := provider.CurrentPrincipal(r)
		assert.False(t, ok)
	})

	t.Run("malformed header means no principal", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Token abc")

		_, ok := provider.CurrentPrincipal(r)
		assert.False(t, ok)
	})
}

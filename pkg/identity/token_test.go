package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	signed, exp, err := tokens.Issue("u1", "s1", time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "s1", claims.SessionID)
}

func TestTokensRejects(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	expired, _, err := tokens.Issue("u1", "s1", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	foreign, _, err := NewTokens("other", time.Hour).Issue("u1", "s1", time.Now())
	require.NoError(t, err)
	noSid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"missing sid":  noSid,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

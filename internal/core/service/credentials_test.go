package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqhub/knowledge-base/internal/core/domain"
)

func TestCredentials_HashAndVerify(t *testing.T) {
	c := NewCredentials("secret", time.Hour)

	hash, err := c.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	assert.True(t, c.Verify("Secret123", hash))
	assert.False(t, c.Verify("secret123", hash))
	assert.False(t, c.Verify("Secret123", "not-a-bcrypt-hash"), "malformed hash must not match")
}

func TestCredentials_TokenRoundTrip(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCredentials("secret", time.Hour)
	c.now = func() time.Time { return issued }

	token, err := c.IssueToken("65f0c1a2b3c4d5e6f7a8b9c0")
	require.NoError(t, err)

	claims, err := c.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "65f0c1a2b3c4d5e6f7a8b9c0", claims.AccountID)
	assert.True(t, claims.IssuedAt.Equal(issued))
}

func TestCredentials_ExpiredToken(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCredentials("secret", time.Hour)
	c.now = func() time.Time { return now }

	token, err := c.IssueToken("u1")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = c.VerifyToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestCredentials_InvalidTokens(t *testing.T) {
	c := NewCredentials("secret", time.Hour)
	other := NewCredentials("other-secret", time.Hour)

	foreign, err := other.IssueToken("u1")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": "u1", "iat": time.Now().Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iat": time.Now().Unix()})
	anonymous, err := noUser.SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":        "not.a.jwt",
		"wrong secret":   foreign,
		"alg none":       unsigned,
		"missing userId": anonymous,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.VerifyToken(token)
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}

func TestCredentials_EmptySecret(t *testing.T) {
	c := NewCredentials("", time.Hour)

	_, err := c.IssueToken("u1")
	assert.ErrorIs(t, err, domain.ErrConfig)
}

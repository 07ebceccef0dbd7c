package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager(t *testing.T) {
	tm := NewTokenManager(testSecret, "eventrental-backend", time.Hour)

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := tm.GenerateAccessToken("ops@example.com", []string{"staff"})
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", claims.Subject)
		assert.Equal(t, TokenTypeAccess, claims.Type)
		assert.Equal(t, []string{"staff"}, claims.Roles)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff", "eventrental-backend", time.Hour)
		token, err := other.GenerateAccessToken("x", nil)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		other := NewTokenManager(testSecret, "someone-else", time.Hour)
		token, err := other.GenerateAccessToken("x", nil)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		past := &tokenManager{secret: []byte(testSecret), issuer: "eventrental-backend", expiry: time.Minute, now: func() time.Time {
			return time.Now().Add(-time.Hour)
		}}
		token, err := past.GenerateAccessToken("x", nil)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("NotAnAccessToken", func(t *testing.T) {
		claims := Claims{Type: "refresh", RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "eventrental-backend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

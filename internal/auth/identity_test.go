package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret []byte, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestResolve_ValidTokenReturnsSubject(t *testing.T) {
	secret := []byte("test-secret")
	resolver := NewIdentityResolver(secret, "herald")
	tok := signToken(t, secret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			Issuer:    "herald",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	userID, err := resolver.Resolve(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestResolve_ExpiredTokenFails(t *testing.T) {
	secret := []byte("test-secret")
	resolver := NewIdentityResolver(secret, "")
	tok := signToken(t, secret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := resolver.Resolve(tok)
	require.Error(t, err)
}

func TestResolve_WrongSecretFails(t *testing.T) {
	resolver := NewIdentityResolver([]byte("real-secret"), "")
	tok := signToken(t, []byte("wrong-secret"), Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := resolver.Resolve(tok)
	require.Error(t, err)
}

func TestResolve_WrongIssuerFails(t *testing.T) {
	secret := []byte("test-secret")
	resolver := NewIdentityResolver(secret, "herald")
	tok := signToken(t, secret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := resolver.Resolve(tok)
	require.Error(t, err)
}

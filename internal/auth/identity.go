// Package auth resolves the caller's user_id from a bearer JWT. Full
// authentication — signup, MFA, OAuth, session/device management — is
// an external collaborator per the platform's own scope; this package
// only verifies a token's signature, expiry and issuer and extracts its
// subject.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
)

// Claims is the minimal claim set this platform issues: a subject
// (user id) plus the standard registered claims for expiry/issuer
// checks.
type Claims struct {
	jwt.RegisteredClaims
}

// IdentityResolver verifies bearer tokens signed with a shared HMAC
// secret and extracts the subject as user_id.
type IdentityResolver struct {
	secret []byte
	issuer string
}

func NewIdentityResolver(secret []byte, issuer string) *IdentityResolver {
	return &IdentityResolver{secret: secret, issuer: issuer}
}

// Resolve parses and verifies tokenString, returning the subject.
func (r *IdentityResolver) Resolve(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierr.New(apierr.KindUnauthenticated, "unexpected signing method")
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apierr.New(apierr.KindUnauthenticated, "invalid or expired token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return "", apierr.New(apierr.KindUnauthenticated, "token missing subject")
	}
	if r.issuer != "" && claims.Issuer != r.issuer {
		return "", apierr.New(apierr.KindUnauthenticated, "unexpected token issuer")
	}
	return claims.Subject, nil
}

// RequireIdentity is gin middleware that resolves the Authorization
// header's bearer token and stores the result under "user_id" in the
// request context; handlers read it back with c.GetString("user_id").
func (r *IdentityResolver) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error_kind": "Unauthenticated", "message": "missing bearer token"})
			c.Abort()
			return
		}
		userID, err := r.Resolve(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error_kind": "Unauthenticated", "message": err.Error()})
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// Package testtoken mints storefront-shaped access tokens for tests.
package testtoken

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const secret = "test-signing-secret"

// Mint signs an HS256 access token carrying username, role and exp, the way the backend does
func Mint(t *testing.T, username, role string, exp time.Time) string {
	t.Helper()
	return MintClaims(t, jwtlib.MapClaims{
		"token_type": "access",
		"username":   username,
		"role":       role,
		"exp":        exp.Unix(),
		"iat":        exp.Add(-5 * time.Minute).Unix(),
		"user_id":    1,
	})
}

// MintClaims signs arbitrary claims
func MintClaims(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

package session

import (
	"fmt"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
)

// Claims is the schema the access token payload must satisfy.
// Only username, role and exp are read; other registered claims are ignored.
type Claims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwtlib.RegisteredClaims
}

// Validate checks the claims this client depends on
func (c *Claims) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("%w: missing username claim", apperrors.ErrInvalidToken)
	}
	if !c.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrInvalidToken, c.Role)
	}
	if c.ExpiresAt == nil {
		return fmt.Errorf("%w: missing exp claim", apperrors.ErrInvalidToken)
	}
	return nil
}

// Decode reads the payload of a JWT without verifying its signature and validates it against Claims.
// Signature checks belong to the backend that issued the token.
func Decode(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, fmt.Errorf("%w: empty token", apperrors.ErrInvalidToken)
	}

	claims := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if err := claims.Validate(); err != nil {
		return nil, err
	}
	return claims, nil
}

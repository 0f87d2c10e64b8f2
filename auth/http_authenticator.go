package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-storefront-session/apiclient"
	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
	"github.com/jrsteele09/go-storefront-session/token"
)

// Backend endpoints relative to the API root
const (
	PathToken    = "/token/"
	PathRegister = "/register/"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HTTPAuthenticator talks to the storefront backend's token and registration endpoints
type HTTPAuthenticator struct {
	client *apiclient.Client
}

var _ Authenticator = (*HTTPAuthenticator)(nil)

func NewHTTPAuthenticator(client *apiclient.Client) *HTTPAuthenticator {
	return &HTTPAuthenticator{client: client}
}

// ObtainTokens posts credentials to /token/ and returns the issued pair
func (a *HTTPAuthenticator) ObtainTokens(ctx context.Context, username, password string) (token.Pair, error) {
	var pair token.Pair
	err := a.client.Post(ctx, PathToken, credentials{Username: username, Password: password}, &pair)
	if err != nil {
		switch apiclient.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusBadRequest:
			return token.Pair{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidCredentials, err)
		}
		return token.Pair{}, fmt.Errorf("[HTTPAuthenticator ObtainTokens] %w", err)
	}
	if pair.Access == "" {
		return token.Pair{}, fmt.Errorf("[HTTPAuthenticator ObtainTokens] %w: response has no access token", apperrors.ErrInvalidToken)
	}
	return pair, nil
}

// Register posts the registration. Backend validation failures come back as *FieldErrors.
func (a *HTTPAuthenticator) Register(ctx context.Context, registration Registration) error {
	err := a.client.Post(ctx, PathRegister, registration, nil)
	if err == nil {
		return nil
	}

	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest {
		if fields := statusErr.FieldMessages(); len(fields) > 0 {
			return &FieldErrors{Fields: fields}
		}
	}
	return fmt.Errorf("[HTTPAuthenticator Register] %w", err)
}

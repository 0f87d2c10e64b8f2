package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-storefront-session/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// HeaderRequestID carries a per-request identifier to the backend
const HeaderRequestID = "X-Request-ID"

// TokenLoader reads the persisted token pair. *token.Store satisfies it.
type TokenLoader interface {
	Load(ctx context.Context) (token.Pair, error)
}

// Transport attaches the stored access token to every outgoing request.
// Requests go out unauthenticated when no token is stored.
type Transport struct {
	Tokens TokenLoader
	Base   http.RoundTripper
}

var _ http.RoundTripper = (*Transport)(nil)

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	outgoing := req.Clone(ctx)

	pair, err := t.Tokens.Load(ctx)
	switch {
	case err == nil && pair.Access != "":
		(&oauth2.Token{AccessToken: pair.Access}).SetAuthHeader(outgoing)
	case err != nil && !errors.Is(err, token.ErrNotFound):
		log.Warn().Err(err).Str("path", req.URL.Path).Msg("token store unavailable, sending request without credentials")
	}

	if outgoing.Header.Get(HeaderRequestID) == "" {
		outgoing.Header.Set(HeaderRequestID, uuid.NewString())
	}

	return t.base().RoundTrip(outgoing)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

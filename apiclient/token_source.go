package apiclient

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-storefront-session/session"
	"golang.org/x/oauth2"
)

// TokenSource exposes the stored pair as an oauth2.TokenSource.
// It never exchanges the refresh token; an expired access token is returned as-is
// with its Expiry set so oauth2 callers can see that it is no longer valid.
type TokenSource struct {
	ctx    context.Context
	tokens TokenLoader
}

var _ oauth2.TokenSource = (*TokenSource)(nil)

func NewTokenSource(ctx context.Context, tokens TokenLoader) *TokenSource {
	return &TokenSource{ctx: ctx, tokens: tokens}
}

func (s *TokenSource) Token() (*oauth2.Token, error) {
	pair, err := s.tokens.Load(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("[TokenSource Token] %w", err)
	}

	t := &oauth2.Token{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "Bearer",
	}
	if claims, err := session.Decode(pair.Access); err == nil {
		t.Expiry = claims.ExpiresAt.Time
	}
	return t, nil
}

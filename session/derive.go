package session

import (
	"context"
	"time"

	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
	"github.com/rs/zerolog/log"
)

// Clearer removes persisted credentials. *token.Store satisfies it.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Deriver computes a Session from a raw access token
type Deriver struct {
	store   Clearer
	nowTime func() time.Time
}

// DeriverOption defines a function type to modify the Deriver instance.
type DeriverOption func(*Deriver)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) DeriverOption {
	return func(d *Deriver) {
		d.nowTime = nowFunc
	}
}

// NewDeriver creates a Deriver that clears store when it sees an expired token
func NewDeriver(store Clearer, options ...DeriverOption) *Deriver {
	d := &Deriver{
		store:   store,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// Derive returns the Session for rawToken.
//
// An empty or malformed token yields LoggedOut. An expired token yields
// LoggedOut and clears the stored token pair; this is the only automatic
// cleanup of stale credentials. Errors are never returned.
func (d *Deriver) Derive(ctx context.Context, rawToken string) Session {
	if rawToken == "" {
		return LoggedOut
	}

	claims, err := Decode(rawToken)
	if err != nil {
		log.Debug().Err(err).Msg("access token rejected, treating as logged out")
		return LoggedOut
	}

	// exp*1000 <= now in milliseconds, compared in seconds so large exp values cannot overflow
	if claims.ExpiresAt.Unix() <= d.nowTime().UnixMilli()/1000 {
		log.Info().Err(apperrors.ErrTokenExpired).Str("user", claims.Username).Time("exp", claims.ExpiresAt.Time).Msg("clearing stored tokens")
		if err := d.store.Clear(ctx); err != nil {
			log.Err(err).Msg("failed to clear expired tokens")
		}
		return LoggedOut
	}

	return fromClaims(rawToken, claims)
}

package token

import (
	"context"
	"fmt"

	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
)

// ErrNotFound is returned when a key, or the token pair, is not in storage.
var ErrNotFound = fmt.Errorf("token %w", apperrors.ErrNotFound)

// KV is process-external string storage scoped to the client.
// Get returns ErrNotFound for a missing key; Delete of a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Store persists the token pair under fixed keys. It does not inspect token contents.
type Store struct {
	kv KV
}

// NewStore creates a token store on top of the given key-value backend
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Save overwrites both tokens
func (s *Store) Save(ctx context.Context, pair Pair) error {
	if err := s.kv.Set(ctx, AccessTokenKey, pair.Access); err != nil {
		return fmt.Errorf("[Store Save] access token: %w", err)
	}
	if err := s.kv.Set(ctx, RefreshTokenKey, pair.Refresh); err != nil {
		return fmt.Errorf("[Store Save] refresh token: %w", err)
	}
	return nil
}

// Load returns the stored pair, or ErrNotFound when no access token is stored.
// A missing refresh token is returned as "".
func (s *Store) Load(ctx context.Context) (Pair, error) {
	access, err := s.kv.Get(ctx, AccessTokenKey)
	if err != nil {
		return Pair{}, err
	}
	if access == "" {
		return Pair{}, ErrNotFound
	}

	refresh, err := s.kv.Get(ctx, RefreshTokenKey)
	if err != nil && !apperrors.Is(err, ErrNotFound) {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// AccessToken returns the stored access token, or "" when there is none or storage fails.
func (s *Store) AccessToken(ctx context.Context) string {
	pair, err := s.Load(ctx)
	if err != nil {
		return ""
	}
	return pair.Access
}

// Clear removes both tokens
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, AccessTokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("[Store Clear] %w", err)
	}
	return nil
}

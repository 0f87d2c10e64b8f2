package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
	"github.com/jrsteele09/go-storefront-session/internal/testtoken"
	"github.com/jrsteele09/go-storefront-session/session"
	"github.com/jrsteele09/go-storefront-session/token"
	tokenfakerepo "github.com/jrsteele09/go-storefront-session/token/repofake"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setupDeriver(t *testing.T) (*session.Deriver, *token.Store, *tokenfakerepo.FakeKV) {
	t.Helper()
	store, kv := tokenfakerepo.NewFakeStore()
	deriver := session.NewDeriver(store, session.WithNowTime(func() time.Time { return fixedNow }))
	return deriver, store, kv
}

func TestDerive_ValidToken(t *testing.T) {
	ctx := context.Background()
	deriver, store, _ := setupDeriver(t)

	raw := testtoken.Mint(t, "bob", "customer", fixedNow.Add(time.Hour))
	require.NoError(t, store.Save(ctx, token.Pair{Access: raw, Refresh: "r"}))

	s := deriver.Derive(ctx, raw)
	require.Equal(t, session.Session{Token: raw, User: "bob", Role: session.RoleCustomer}, s)
	require.True(t, s.LoggedIn())

	// Storage is untouched for a valid token
	require.Equal(t, raw, store.AccessToken(ctx))
}

func TestDerive_ExpiredTokenClearsStorage(t *testing.T) {
	ctx := context.Background()
	deriver, store, kv := setupDeriver(t)

	raw := testtoken.Mint(t, "alice", "seller", fixedNow.Add(-time.Second))
	require.NoError(t, store.Save(ctx, token.Pair{Access: raw, Refresh: "r"}))

	s := deriver.Derive(ctx, raw)
	require.Equal(t, session.LoggedOut, s)
	require.False(t, s.LoggedIn())
	require.Equal(t, 0, kv.Len())
}

func TestDerive_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	store, kv := tokenfakerepo.NewFakeStore()

	exp := fixedNow.Truncate(time.Second)
	raw := testtoken.Mint(t, "carol", "customer", exp)

	t.Run("exp equal to now is expired", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, token.Pair{Access: raw}))
		d := session.NewDeriver(store, session.WithNowTime(func() time.Time { return exp }))
		require.Equal(t, session.LoggedOut, d.Derive(ctx, raw))
		require.Equal(t, 0, kv.Len())
	})

	t.Run("one millisecond before exp is valid", func(t *testing.T) {
		d := session.NewDeriver(store, session.WithNowTime(func() time.Time { return exp.Add(-time.Millisecond) }))
		require.Equal(t, "carol", d.Derive(ctx, raw).User)
	})

	t.Run("far future exp is valid", func(t *testing.T) {
		farFuture := testtoken.MintClaims(t, jwtlib.MapClaims{"username": "bob", "role": "customer", "exp": int64(9_300_000_000_000_000)})
		require.NoError(t, store.Save(ctx, token.Pair{Access: farFuture, Refresh: "r"}))

		d := session.NewDeriver(store, session.WithNowTime(func() time.Time { return fixedNow }))
		s := d.Derive(ctx, farFuture)
		require.Equal(t, session.Session{Token: farFuture, User: "bob", Role: session.RoleCustomer}, s)
		require.Equal(t, 2, kv.Len())
	})
}

func TestDerive_EmptyToken(t *testing.T) {
	deriver, _, _ := setupDeriver(t)
	require.Equal(t, session.LoggedOut, deriver.Derive(context.Background(), ""))
}

func TestDerive_MalformedTokens(t *testing.T) {
	ctx := context.Background()
	future := fixedNow.Add(time.Hour).Unix()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain string", raw: "not-a-jwt"},
		{name: "two segments", raw: "abc.def"},
		{name: "garbage payload", raw: "eyJhbGciOiJIUzI1NiJ9.!!!.sig"},
		{name: "payload not json", raw: "eyJhbGciOiJIUzI1NiJ9.bm90IGpzb24.sig"},
		{name: "missing username", raw: testtoken.MintClaims(t, jwtlib.MapClaims{"role": "customer", "exp": future})},
		{name: "unknown role", raw: testtoken.MintClaims(t, jwtlib.MapClaims{"username": "eve", "role": "admin", "exp": future})},
		{name: "missing exp", raw: testtoken.MintClaims(t, jwtlib.MapClaims{"username": "eve", "role": "seller"})},
		{name: "role wrong type", raw: testtoken.MintClaims(t, jwtlib.MapClaims{"username": "eve", "role": 7, "exp": future})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deriver, store, kv := setupDeriver(t)
			require.NoError(t, store.Save(ctx, token.Pair{Access: tc.raw, Refresh: "r"}))

			require.NotPanics(t, func() {
				require.Equal(t, session.LoggedOut, deriver.Derive(ctx, tc.raw))
			})
			// Malformed tokens are not cleared, only expired ones are
			require.Equal(t, 2, kv.Len())
		})
	}
}

func TestDerive_ClearFailureStillLogsOut(t *testing.T) {
	ctx := context.Background()
	deriver, _, kv := setupDeriver(t)
	kv.FailWith = errors.New("disk full")

	raw := testtoken.Mint(t, "alice", "seller", fixedNow.Add(-time.Hour))
	require.Equal(t, session.LoggedOut, deriver.Derive(ctx, raw))
}

func TestDecode(t *testing.T) {
	raw := testtoken.Mint(t, "dave", "seller", fixedNow.Add(time.Hour))
	claims, err := session.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "dave", claims.Username)
	require.Equal(t, session.RoleSeller, claims.Role)
	require.Equal(t, fixedNow.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

	_, err = session.Decode("")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = session.Decode("x.y.z")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestSession_HasRole(t *testing.T) {
	s := session.Session{Token: "t", User: "u", Role: session.RoleSeller}
	require.True(t, s.HasRole(session.RoleSeller))
	require.True(t, s.HasRole(session.RoleCustomer, session.RoleSeller))
	require.False(t, s.HasRole(session.RoleCustomer))
	require.False(t, session.LoggedOut.HasRole(session.Roles...))
}

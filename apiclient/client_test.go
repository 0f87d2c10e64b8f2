package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-storefront-session/apiclient"
	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
	"github.com/jrsteele09/go-storefront-session/internal/testtoken"
	"github.com/jrsteele09/go-storefront-session/token"
	tokenfakerepo "github.com/jrsteele09/go-storefront-session/token/repofake"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	authorization string
	requestID     string
	contentType   string
	body          map[string]any
}

func echoServer(t *testing.T, status int, response string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	captured := make([]capturedRequest, 0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := capturedRequest{
			authorization: r.Header.Get("Authorization"),
			requestID:     r.Header.Get(apiclient.HeaderRequestID),
			contentType:   r.Header.Get("Content-Type"),
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&c.body)
		}
		captured = append(captured, c)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestClient_AttachesBearerToken(t *testing.T) {
	ctx := context.Background()
	srv, captured := echoServer(t, http.StatusOK, `{"ok":true}`)
	store, _ := tokenfakerepo.NewFakeStore()
	client := apiclient.New(srv.URL+"/api/", store)

	t.Run("no token stored", func(t *testing.T) {
		require.NoError(t, client.Get(ctx, "/products/", nil))
		require.Equal(t, "", (*captured)[0].authorization)
		require.NotEmpty(t, (*captured)[0].requestID)
	})

	t.Run("token stored", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, token.Pair{Access: "abc", Refresh: "def"}))
		var out struct {
			OK bool `json:"ok"`
		}
		require.NoError(t, client.Post(ctx, "/cart/", map[string]int{"product_id": 3}, &out))
		require.True(t, out.OK)

		last := (*captured)[1]
		require.Equal(t, "Bearer abc", last.authorization)
		require.Equal(t, "application/json", last.contentType)
		require.Equal(t, float64(3), last.body["product_id"])
	})

	t.Run("token read per request", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, client.Delete(ctx, "/products/1/"))
		require.Equal(t, "", (*captured)[2].authorization)
	})
}

func TestClient_StoreFailureSendsUnauthenticated(t *testing.T) {
	srv, captured := echoServer(t, http.StatusOK, `{}`)
	store, kv := tokenfakerepo.NewFakeStore()
	kv.FailWith = errors.New("offline")

	require.NoError(t, apiclient.New(srv.URL, store).Get(context.Background(), "/products/", nil))
	require.Equal(t, "", (*captured)[0].authorization)
}

func TestClient_StatusError(t *testing.T) {
	srv, _ := echoServer(t, http.StatusBadRequest, `{"username":["A user with that username already exists."],"detail":"bad"}`)
	store, _ := tokenfakerepo.NewFakeStore()

	err := apiclient.New(srv.URL, store).Post(context.Background(), "/register/", map[string]string{}, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, apperrors.ErrUnexpectedStatus)
	require.Equal(t, http.StatusBadRequest, apiclient.StatusCode(err))

	var statusErr *apiclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, map[string][]string{
		"username": {"A user with that username already exists."},
		"detail":   {"bad"},
	}, statusErr.FieldMessages())
}

func TestClient_NotFound(t *testing.T) {
	srv, _ := echoServer(t, http.StatusNotFound, `{"detail":"Not found."}`)
	store, _ := tokenfakerepo.NewFakeStore()

	err := apiclient.New(srv.URL, store).Get(context.Background(), "/products/99/", nil)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClient_KeepsCallerRequestID(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(apiclient.HeaderRequestID)
	}))
	defer srv.Close()

	store, _ := tokenfakerepo.NewFakeStore()
	transport := &apiclient.Transport{Tokens: store}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set(apiclient.HeaderRequestID, "fixed-id")

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "fixed-id", seen)
}

func TestTokenSource(t *testing.T) {
	ctx := context.Background()
	store, _ := tokenfakerepo.NewFakeStore()
	source := apiclient.NewTokenSource(ctx, store)

	_, err := source.Token()
	require.ErrorIs(t, err, token.ErrNotFound)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := testtoken.Mint(t, "bob", "customer", exp)
	require.NoError(t, store.Save(ctx, token.Pair{Access: raw, Refresh: "refresh"}))

	tok, err := source.Token()
	require.NoError(t, err)
	require.Equal(t, raw, tok.AccessToken)
	require.Equal(t, "refresh", tok.RefreshToken)
	require.True(t, exp.Equal(tok.Expiry))
	require.True(t, tok.Valid())
}

func TestStatusError_Message(t *testing.T) {
	tests := map[string]string{
		`{"error":"Product not found"}`: "Product not found",
		`{"detail":"Not found."}`:       "Not found.",
		`not json`:                      "",
		`{"other":"x"}`:                 "",
	}
	for body, want := range tests {
		err := &apiclient.StatusError{StatusCode: http.StatusBadRequest, Body: []byte(body)}
		require.Equal(t, want, err.Message(), body)
	}
}

package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-storefront-session/guard"
	"github.com/jrsteele09/go-storefront-session/internal/app"
	"github.com/jrsteele09/go-storefront-session/internal/config"
	"github.com/jrsteele09/go-storefront-session/internal/testtoken"
	"github.com/jrsteele09/go-storefront-session/session"
	"github.com/jrsteele09/go-storefront-session/token/filekv"
	tokenfakerepo "github.com/jrsteele09/go-storefront-session/token/repofake"
	"github.com/stretchr/testify/require"
)

func tokenBackend(t *testing.T) *httptest.Server {
	t.Helper()
	access := testtoken.Mint(t, "bob", "customer", time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access": access, "refresh": "refresh"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenKV(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Setenv("TOKEN_STORE", "memory")
		kv, closer, err := app.OpenKV(ctx, config.New())
		require.NoError(t, err)
		require.Nil(t, closer)
		require.IsType(t, &tokenfakerepo.FakeKV{}, kv)
	})

	t.Run("file by default", func(t *testing.T) {
		folder := t.TempDir()
		t.Setenv("TOKEN_STORE", "")
		t.Setenv("FOLDER", folder)
		kv, _, err := app.OpenKV(ctx, config.New())
		require.NoError(t, err)

		fileKV, ok := kv.(*filekv.FileKV)
		require.True(t, ok)
		require.Equal(t, filepath.Join(folder, filekv.DefaultFileName), fileKV.Path())
	})

	t.Run("unreachable redis", func(t *testing.T) {
		t.Setenv("TOKEN_STORE", "redis")
		t.Setenv("REDIS_ADDR", "127.0.0.1:1")
		_, _, err := app.OpenKV(ctx, config.New())
		require.Error(t, err)
	})
}

func TestLoadRouteTable(t *testing.T) {
	t.Run("built in", func(t *testing.T) {
		t.Setenv("ROUTE_POLICY_FILE", "")
		table, err := app.LoadRouteTable(config.New())
		require.NoError(t, err)
		require.Equal(t, guard.DefaultTable().Paths(), table.Paths())
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "routes.yaml")
		policy := "routes:\n  - path: /login\n    access: public\n  - path: /orders\n    access: protected\n    roles: [customer]\n"
		require.NoError(t, os.WriteFile(path, []byte(policy), 0o600))
		t.Setenv("ROUTE_POLICY_FILE", path)

		table, err := app.LoadRouteTable(config.New())
		require.NoError(t, err)
		require.Equal(t, []string{"/login", "/orders"}, table.Paths())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("ROUTE_POLICY_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
		_, err := app.LoadRouteTable(config.New())
		require.Error(t, err)
	})
}

func TestNew_LoginPersistsAcrossApps(t *testing.T) {
	ctx := context.Background()
	srv := tokenBackend(t)
	t.Setenv("TOKEN_STORE", "file")
	t.Setenv("FOLDER", t.TempDir())
	t.Setenv("API_BASE_URL", srv.URL+"/api/")
	t.Setenv("ROUTE_POLICY_FILE", "")

	first, err := app.New(ctx, config.New())
	require.NoError(t, err)
	result := first.Manager.Login(ctx, "bob", "password123")
	require.True(t, result.Success)
	require.NoError(t, first.Close())

	second, err := app.New(ctx, config.New())
	require.NoError(t, err)
	defer second.Close()
	require.Equal(t, session.RoleCustomer, second.Manager.Session().Role)
	require.Equal(t, "bob", second.Manager.Session().User)
}

package config_test

import (
	"testing"

	"github.com/jrsteele09/go-storefront-session/internal/config"
	"github.com/stretchr/testify/require"
)

func TestEnvVars_GetListenAddr(t *testing.T) {
	t.Run("defaults to loopback", func(t *testing.T) {
		t.Setenv("HOST", "")
		t.Setenv("PORT", "")
		require.Equal(t, "127.0.0.1:8081", config.EnvVars{}.GetListenAddr())
	})

	t.Run("explicit host and port", func(t *testing.T) {
		t.Setenv("HOST", "0.0.0.0")
		t.Setenv("PORT", "9000")
		require.Equal(t, "0.0.0.0:9000", config.EnvVars{}.GetListenAddr())
	})
}

func TestEnvVars_GetAPIBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend:8000/api/")
	require.Equal(t, "http://backend:8000/api", config.EnvVars{}.GetAPIBaseURL())
}

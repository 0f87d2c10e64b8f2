package config

import (
	"os"
	"strings"
)

const (
	portEnvVar       = "PORT"
	hostEnvVar       = "HOST"
	appNameVar       = "APP_NAME"
	folderEnvVar     = "FOLDER"
	apiBaseURLEnvVar = "API_BASE_URL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8081")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

// GetListenAddr is HOST:PORT. HOST defaults to loopback since the shell acts as the logged-in user.
func (e EnvVars) GetListenAddr() string {
	return GetEnv(hostEnvVar, "127.0.0.1") + e.GetPort()
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Storefront")
}

// GetAPIBaseURL returns the storefront backend's API root (e.g., "http://127.0.0.1:8000/api").
// Endpoint paths such as /token/ and /cart/ are joined onto it.
func (EnvVars) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiBaseURLEnvVar, "http://127.0.0.1:8000/api"), "/")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

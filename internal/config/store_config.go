package config

import "strings"

// StoreBackend selects where the token pair is persisted.
type StoreBackend string

const (
	StoreBackendMemory StoreBackend = "memory"
	StoreBackendFile   StoreBackend = "file"
	StoreBackendRedis  StoreBackend = "redis"
)

type StoreConfig interface {
	GetStoreBackend() StoreBackend
	GetStorePassphrase() string
	GetRedisAddr() string
	GetRedisPrefix() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetStoreBackend() StoreBackend {
	switch backend := StoreBackend(strings.ToLower(GetEnv("TOKEN_STORE", string(StoreBackendFile)))); backend {
	case StoreBackendMemory, StoreBackendRedis:
		return backend
	default:
		return StoreBackendFile
	}
}

// GetStorePassphrase enables at-rest encryption of the file store when set.
func (Store) GetStorePassphrase() string {
	return GetEnv("TOKEN_STORE_PASSPHRASE", "")
}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Store) GetRedisPrefix() string {
	return GetEnv("REDIS_PREFIX", "storefront:")
}

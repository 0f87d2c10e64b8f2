package config

type Config interface {
	EnvConfig
	StoreConfig
	PolicyConfig
}

type EnvConfig interface {
	GetPort() string
	GetListenAddr() string
	GetAppName() string
	GetAPIBaseURL() string
	GetDataFolder() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Store
	Policy
}

func New() Config {
	return mainConfig{}
}

package config

type Config interface {
	EnvConfig
	ProvidersConfig
	SecurityConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetDatabaseDSN() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Providers
	Security
	Cors
}

func New() Config {
	return mainConfig{}
}

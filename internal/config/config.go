package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
	GeocodeConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetCoalesceRefresh() bool
}

type SessionConfig interface {
	GetSessionFile() string
	GetSessionKey() string
}

type GeocodeConfig interface {
	GetOpenWeatherAPIKey() string
	GetGeocodeBaseURL() string
}

type mainConfig struct {
	EnvVars
	API
	Session
	Geocode
}

func New() Config {
	return mainConfig{}
}

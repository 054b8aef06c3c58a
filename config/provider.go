package config

import "github.com/google/wire"

// ProviderSet is the wire provider set for the config package.
// It extracts sub-configurations from the loaded *Config.
var ProviderSet = wire.NewSet(
	ProvideLoggerConfig,
	ProvideDataConfig,
	ProvideAuthConfig,
	ProvideServerConfig,
	ProvideObservesConfig,
	ProvideWorkerConfig,
)

// ProvideLoggerConfig provides the logger configuration.
func ProvideLoggerConfig(cfg *Config) *Logger {
	if cfg == nil {
		return nil
	}
	return cfg.Logger
}

// ProvideDataConfig provides the data layer configuration.
func ProvideDataConfig(cfg *Config) *Data {
	if cfg == nil {
		return nil
	}
	return cfg.Data
}

// ProvideAuthConfig provides the authentication configuration.
func ProvideAuthConfig(cfg *Config) *Auth {
	if cfg == nil {
		return nil
	}
	return cfg.Auth
}

// ProvideServerConfig provides the http server configuration.
func ProvideServerConfig(cfg *Config) *Server {
	if cfg == nil {
		return nil
	}
	return cfg.Server
}

// ProvideObservesConfig provides the observability configuration.
func ProvideObservesConfig(cfg *Config) *Observes {
	if cfg == nil {
		return nil
	}
	return cfg.Observes
}

// ProvideWorkerConfig provides the worker pool configuration.
func ProvideWorkerConfig(cfg *Config) *Worker {
	if cfg == nil {
		return nil
	}
	return cfg.Worker
}

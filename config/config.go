package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ErrMissingRequired is returned when a setting without a usable default is absent
var ErrMissingRequired = errors.New("missing required configuration")

// Profiles supported by the service
const (
	ProfileTasks   = "tasks"
	ProfileGrading = "grading"
)

// Config represents the configuration implementation.
type Config struct {
	AppName     string
	Environment string
	Profile     string
	Server      *Server
	Logger      *Logger
	Data        *Data
	Auth        *Auth
	Worker      *Worker
	Observes    *Observes
	Viper       *viper.Viper
}

// envBindings maps config keys to the deployment environment variables.
var envBindings = map[string][]string{
	"data.mongodb.uri":         {"MONGODB_URL", "DATA_MONGODB_URI"},
	"data.mongodb.database":    {"MONGODB_DATABASE", "DATA_MONGODB_DATABASE"},
	"data.redis.addr":          {"REDIS_ADDR", "DATA_REDIS_ADDR"},
	"auth.jwt.secret":          {"JWT_SECRET", "AUTH_JWT_SECRET"},
	"auth.jwt.expiry":          {"JWT_EXPIRY", "AUTH_JWT_EXPIRY"},
	"auth.admin_code":          {"ADMIN_REGISTRATION_CODE", "AUTH_ADMIN_CODE"},
	"profile":                  {"APP_PROFILE", "PROFILE"},
	"server.port":              {"PORT", "SERVER_PORT"},
	"server.frontend_url":      {"FRONTEND_URL"},
	"observes.sentry.endpoint": {"SENTRY_DSN", "OBSERVES_SENTRY_ENDPOINT"},
	"observes.tracer.endpoint": {"OTEL_ENDPOINT", "OBSERVES_TRACER_ENDPOINT"},
}

// LoadConfig loads the configuration from the file, if any, and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.classroom")
		v.AddConfigPath("/etc/classroom")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return build(v)
}

// build reads every section from v and validates the result.
func build(v *viper.Viper) (*Config, error) {
	auth, err := getAuth(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppName:     getStringOrDefault(v, "app_name", "classroom"),
		Environment: getStringOrDefault(v, "environment", "development"),
		Profile:     strings.ToLower(getStringOrDefault(v, "profile", ProfileGrading)),
		Server:      getServerConfig(v),
		Logger:      getLoggerConfig(v),
		Data:        getDataConfig(v),
		Auth:        auth,
		Worker:      getWorkerConfig(v),
		Observes:    getObservesConfig(v),
		Viper:       v,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on settings the process cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.Data == nil || c.Data.MongoDB == nil || c.Data.MongoDB.URI == "" {
		missing = append(missing, "MONGODB_URL")
	}
	if c.Auth == nil || c.Auth.JWT == nil || c.Auth.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	switch c.Profile {
	case ProfileTasks, ProfileGrading:
	default:
		return fmt.Errorf("unknown profile %q, expected %q or %q", c.Profile, ProfileTasks, ProfileGrading)
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	return nil
}

// Watch re-reads the configuration file when it changes and hands the new
// configuration to callback. Invalid edits are reported and ignored.
func (c *Config) Watch(callback func(*Config), onError func(error)) {
	if c.Viper == nil || c.Viper.ConfigFileUsed() == "" {
		return
	}
	c.Viper.OnConfigChange(func(e fsnotify.Event) {
		next, err := build(c.Viper)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		callback(next)
	})
	c.Viper.WatchConfig()
}

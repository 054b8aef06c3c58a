package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config data config struct
type Config struct {
	*MongoDB `yaml:"mongodb" json:"mongodb"`
	*Redis   `yaml:"redis" json:"redis"`
}

// GetConfig returns data config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		MongoDB: getMongoDBConfigs(v),
		Redis:   getRedisConfigs(v),
	}
}

// getDurationOrDefault returns duration from config or default value
func getDurationOrDefault(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	if v.IsSet(key) {
		return v.GetDuration(key)
	}
	return defaultValue
}

// getIntOrDefault returns int from config or default value
func getIntOrDefault(v *viper.Viper, key string, defaultValue int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return defaultValue
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

// MongoDB mongodb config struct
type MongoDB struct {
	URI      string `json:"uri"`
	Database string `json:"database"`

	ConnectTimeout         time.Duration `json:"connect_timeout"`
	ServerSelectionTimeout time.Duration `json:"server_selection_timeout"`
	SocketTimeout          time.Duration `json:"socket_timeout"`
	MinPoolSize            uint64        `json:"min_pool_size"`
	MaxPoolSize            uint64        `json:"max_pool_size"`
	TLS                    bool          `json:"tls"`

	Retry          *Retry        `json:"retry"`
	ReconnectDelay time.Duration `json:"reconnect_delay"`
	Breaker        *Breaker      `json:"breaker"`
}

// Retry bounds the startup connect loop: the n-th retry waits
// min(Base * 2^n, Cap) and at most MaxAttempts dials are made.
type Retry struct {
	Base        time.Duration `json:"base"`
	Cap         time.Duration `json:"cap"`
	MaxAttempts int           `json:"max_attempts"`
}

// Breaker configures the circuit breaker around store calls
type Breaker struct {
	MaxFailures int           `json:"max_failures"`
	Timeout     time.Duration `json:"timeout"`
}

// getMongoDBConfigs reads MongoDB configurations
func getMongoDBConfigs(v *viper.Viper) *MongoDB {
	database := v.GetString("data.mongodb.database")
	if database == "" {
		database = "classroom"
	}

	return &MongoDB{
		URI:                    v.GetString("data.mongodb.uri"),
		Database:               database,
		ConnectTimeout:         getDurationOrDefault(v, "data.mongodb.connect_timeout", 10*time.Second),
		ServerSelectionTimeout: getDurationOrDefault(v, "data.mongodb.server_selection_timeout", 5*time.Second),
		SocketTimeout:          getDurationOrDefault(v, "data.mongodb.socket_timeout", 45*time.Second),
		MinPoolSize:            uint64(getIntOrDefault(v, "data.mongodb.min_pool_size", 2)),
		MaxPoolSize:            uint64(getIntOrDefault(v, "data.mongodb.max_pool_size", 10)),
		TLS:                    v.GetBool("data.mongodb.tls"),
		Retry: &Retry{
			Base:        getDurationOrDefault(v, "data.mongodb.retry.base", time.Second),
			Cap:         getDurationOrDefault(v, "data.mongodb.retry.cap", 30*time.Second),
			MaxAttempts: getIntOrDefault(v, "data.mongodb.retry.max_attempts", 5),
		},
		ReconnectDelay: getDurationOrDefault(v, "data.mongodb.reconnect_delay", 5*time.Second),
		Breaker: &Breaker{
			MaxFailures: getIntOrDefault(v, "data.mongodb.breaker.max_failures", 5),
			Timeout:     getDurationOrDefault(v, "data.mongodb.breaker.timeout", 30*time.Second),
		},
	}
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:5174"}

// Server http server config struct
type Server struct {
	Host            string
	Port            int
	AllowedOrigins  []string
	BodyLimit       int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// getServerConfig returns the server config
func getServerConfig(v *viper.Viper) *Server {
	origins := v.GetStringSlice("server.allowed_origins")
	if len(origins) == 0 {
		origins = append([]string{}, defaultOrigins...)
	}
	if frontend := v.GetString("server.frontend_url"); frontend != "" {
		origins = append(origins, frontend)
	}

	return &Server{
		Host:            getStringOrDefault(v, "server.host", "0.0.0.0"),
		Port:            getIntOrDefault(v, "server.port", 5000),
		AllowedOrigins:  origins,
		BodyLimit:       int64(getIntOrDefault(v, "server.body_limit", 10*1024)),
		ReadTimeout:     getDurationOrDefault(v, "server.read_timeout", 15*time.Second),
		WriteTimeout:    getDurationOrDefault(v, "server.write_timeout", 15*time.Second),
		ShutdownTimeout: getDurationOrDefault(v, "server.shutdown_timeout", 10*time.Second),
	}
}

// Package config loads application configuration with Viper from an
// optional file plus environment variables, and validates the settings the
// service cannot start without.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("./config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// An empty path searches ./config.{yaml,json,toml}, $HOME/.classroom and
// /etc/classroom; finding no file is not an error.
//
// # Environment Variables
//
// Every key can be overridden with its upper cased, underscore joined name
// (data.mongodb.uri -> DATA_MONGODB_URI). The deployment variables below are
// bound explicitly:
//
//	MONGODB_URL               data.mongodb.uri (required)
//	MONGODB_DATABASE          data.mongodb.database
//	JWT_SECRET                auth.jwt.secret (required)
//	JWT_EXPIRY                auth.jwt.expiry, e.g. "7d" or "12h"
//	ADMIN_REGISTRATION_CODE   auth.admin_code
//	APP_PROFILE               profile: tasks | grading
//	PORT                      server.port
//	FRONTEND_URL              extra CORS origin
//	REDIS_ADDR                data.redis.addr
//	SENTRY_DSN                observes.sentry.endpoint
//	OTEL_ENDPOINT             observes.tracer.endpoint
//
// # Example
//
//	app_name: classroom
//	environment: development
//	profile: grading
//	server:
//	  host: 0.0.0.0
//	  port: 5000
//	auth:
//	  jwt:
//	    expiry: 7d
//	  bcrypt_cost: 12
//	data:
//	  mongodb:
//	    database: classroom
//	    retry:
//	      base: 1s
//	      cap: 30s
//	      max_attempts: 5
//	logger:
//	  level: info
//	  format: json
//
// # Hot Reload
//
//	cfg.Watch(func(c *config.Config) {
//	    _ = log.SetLevelString(c.Logger.Level)
//	})
package config

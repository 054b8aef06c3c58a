package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Auth auth config struct
type Auth struct {
	JWT        *JWT
	AdminCode  string
	BcryptCost int
	RateLimit  *RateLimit
}

// JWT jwt config struct
type JWT struct {
	Secret string
	Expiry time.Duration
}

// RateLimit bounds requests per client on the credential endpoints
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// getAuth returns the auth config.
func getAuth(v *viper.Viper) (*Auth, error) {
	jwt, err := getJWT(v)
	if err != nil {
		return nil, err
	}
	return &Auth{
		JWT:        jwt,
		AdminCode:  v.GetString("auth.admin_code"),
		BcryptCost: getIntOrDefault(v, "auth.bcrypt_cost", 12),
		RateLimit: &RateLimit{
			Requests: getIntOrDefault(v, "auth.rate_limit.requests", 20),
			Window:   getDurationOrDefault(v, "auth.rate_limit.window", 15*time.Minute),
		},
	}, nil
}

// getJWT returns the jwt config.
func getJWT(v *viper.Viper) (*JWT, error) {
	expiry := 7 * 24 * time.Hour
	if raw := v.GetString("auth.jwt.expiry"); raw != "" {
		d, err := ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("auth.jwt.expiry: %w", err)
		}
		expiry = d
	}
	return &JWT{
		Secret: v.GetString("auth.jwt.secret"),
		Expiry: expiry,
	}, nil
}

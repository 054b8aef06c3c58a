package jwt

import (
	"github.com/google/wire"
	"github.com/ncobase/classroom/config"
)

// ProviderSet is the wire provider set for the jwt package.
var ProviderSet = wire.NewSet(ProvideTokenManager)

// ProvideTokenManager creates a TokenManager from the auth configuration.
// The refresh lifetime is fixed at DefaultRefreshTokenExpire.
func ProvideTokenManager(cfg *config.Auth) *TokenManager {
	if cfg == nil || cfg.JWT == nil {
		return NewTokenManager("")
	}
	return NewTokenManager(cfg.JWT.Secret, &TokenConfig{
		AccessTokenExpiry: cfg.JWT.Expiry,
	})
}

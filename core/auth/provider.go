package auth

import (
	"time"

	"github.com/google/wire"
	"github.com/ncobase/classroom/cache"
	"github.com/ncobase/classroom/config"
	"github.com/ncobase/classroom/core/auth/data/repository"
	"github.com/ncobase/classroom/core/auth/handler"
	"github.com/ncobase/classroom/core/auth/middleware"
	"github.com/ncobase/classroom/core/auth/service"
	"github.com/ncobase/classroom/core/auth/structs"
	"github.com/ncobase/classroom/crypto"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/ncobase/classroom/security/jwt"
)

// ProviderSet is the wire provider set for the auth module.
var ProviderSet = wire.NewSet(
	repository.NewUserRepository,
	ProvideAuthService,
	middleware.NewMiddleware,
	handler.NewAuthHandler,
	New,
)

const profileTTL = 5 * time.Minute

// ProvideAuthService builds the credential service for the configured
// profile. Profiles are cached in Redis when it is configured.
func ProvideAuthService(
	cfg *config.Config,
	d *data.Data,
	users repository.UserRepositoryInterface,
	hasher *crypto.Hasher,
	tokens *jwt.TokenManager,
	log *logger.Logger,
) (service.AuthServiceInterface, error) {
	profile, err := structs.ParseProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}
	profiles := cache.NewCache[structs.ReadUser](d.Redis, "profile", profileTTL)
	return service.NewAuthService(profile, cfg.Auth.AdminCode, users, hasher, tokens, log,
		service.WithProfileCache(profiles)), nil
}

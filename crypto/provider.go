package crypto

import (
	"github.com/google/wire"
	"github.com/ncobase/classroom/concurrency/worker"
	"github.com/ncobase/classroom/config"
)

// ProviderSet is the wire provider set for the crypto package.
var ProviderSet = wire.NewSet(ProvideHasher)

// ProvideHasher creates a Hasher that runs bcrypt on the worker pool.
func ProvideHasher(cfg *config.Auth, pool *worker.Pool) *Hasher {
	cost := DefaultCost
	if cfg != nil {
		cost = cfg.BcryptCost
	}
	return NewHasher(cost, pool)
}

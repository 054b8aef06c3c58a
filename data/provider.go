package data

import (
	"context"

	"github.com/google/wire"
	"github.com/ncobase/classroom/data/config"
	"github.com/ncobase/classroom/logging/logger"
)

// ProviderSet is the data providers
var ProviderSet = wire.NewSet(ProvideData, ProvideStore)

// ProvideData connects the stores for the injector. Cancelling ctx stops
// the startup retry loop.
func ProvideData(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Data, func(), error) {
	return New(ctx, cfg, log)
}

//go:build wireinject

package server

import (
	"context"

	"github.com/google/wire"
	"github.com/ncobase/classroom/biz/record"
	"github.com/ncobase/classroom/biz/task"
	"github.com/ncobase/classroom/concurrency"
	"github.com/ncobase/classroom/config"
	"github.com/ncobase/classroom/core/auth"
	"github.com/ncobase/classroom/crypto"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/ncobase/classroom/security"
)

// InitializeServer wires the application from a loaded configuration.
// The cleanup closes the store connections, drains the worker pool and
// closes the log file, in that order. ctx bounds startup only.
func InitializeServer(ctx context.Context, cfg *config.Config) (*Server, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		logger.ProviderSet,
		concurrency.ProviderSet,
		data.ProviderSet,
		crypto.ProviderSet,
		security.ProviderSet,
		auth.ProviderSet,
		task.ProviderSet,
		record.ProviderSet,
		NewServer,
	))
}

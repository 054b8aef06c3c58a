package logger

import (
	"github.com/google/wire"
	"github.com/ncobase/classroom/logging/logger/config"
)

// ProviderSet is the wire provider set for the logger package
var ProviderSet = wire.NewSet(ProvideLogger)

// ProvideLogger initializes a logger from its configuration
func ProvideLogger(cfg *config.Config) (*Logger, func(), error) {
	return New(cfg)
}

package concurrency

import (
	"github.com/google/wire"
	"github.com/ncobase/classroom/concurrency/worker"
)

// ProviderSet provides the worker pool used for blocking work.
var ProviderSet = wire.NewSet(
	worker.ProviderSet,
)

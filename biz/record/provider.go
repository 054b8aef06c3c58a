package record

import (
	"github.com/google/wire"
	"github.com/ncobase/classroom/biz/record/data/repository"
	"github.com/ncobase/classroom/biz/record/handler"
	"github.com/ncobase/classroom/biz/record/service"
	authService "github.com/ncobase/classroom/core/auth/service"
)

// ProviderSet is the wire provider set for the record module.
var ProviderSet = wire.NewSet(
	repository.NewRecordRepository,
	ProvideDirectory,
	service.NewRecordService,
	handler.NewRecordHandler,
	New,
)

// ProvideDirectory resolves student names through the auth service
func ProvideDirectory(auth authService.AuthServiceInterface) service.Directory {
	return auth
}

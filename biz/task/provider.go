package task

import (
	"github.com/google/wire"
	"github.com/ncobase/classroom/biz/task/data/repository"
	"github.com/ncobase/classroom/biz/task/handler"
	"github.com/ncobase/classroom/biz/task/service"
)

// ProviderSet is the wire provider set for the task module.
var ProviderSet = wire.NewSet(
	repository.NewTaskRepository,
	service.NewTaskService,
	handler.NewTaskHandler,
	New,
)

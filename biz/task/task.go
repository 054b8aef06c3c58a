// Package task is the personal task list served under the tasks profile.
package task

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/biz/task/data/repository"
	"github.com/ncobase/classroom/biz/task/handler"
	"github.com/ncobase/classroom/core/auth/middleware"
)

// Module bundles the task components
type Module struct {
	handler *handler.TaskHandler
	tasks   repository.TaskRepositoryInterface
}

// New creates the task module
func New(tasks repository.TaskRepositoryInterface, h *handler.TaskHandler) *Module {
	return &Module{handler: h, tasks: tasks}
}

// Init creates the task indexes
func (m *Module) Init(ctx context.Context) error {
	return m.tasks.EnsureIndexes(ctx)
}

// RegisterRoutes mounts /tasks on api behind authentication
func (m *Module) RegisterRoutes(api *gin.RouterGroup, mw *middleware.Middleware) {
	g := api.Group("/tasks", mw.Authenticate())
	g.GET("", m.handler.List)
	g.POST("", m.handler.Create)
	g.GET("/:id", m.handler.Get)
	g.PUT("/:id", m.handler.Update)
	g.DELETE("/:id", m.handler.Delete)
}

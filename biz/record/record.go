// Package record keeps the student records of the grading profile.
package record

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/biz/record/data/repository"
	"github.com/ncobase/classroom/biz/record/handler"
	"github.com/ncobase/classroom/core/auth/middleware"
	"github.com/ncobase/classroom/core/auth/structs"
)

// Module bundles the record components
type Module struct {
	handler *handler.RecordHandler
	records repository.RecordRepositoryInterface
}

// New creates the record module
func New(records repository.RecordRepositoryInterface, h *handler.RecordHandler) *Module {
	return &Module{handler: h, records: records}
}

// Init creates the record indexes
func (m *Module) Init(ctx context.Context) error {
	return m.records.EnsureIndexes(ctx)
}

// RegisterRoutes mounts /students on api. Reads are open to students and
// teachers; the service enforces teacher ownership on writes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, mw *middleware.Middleware) {
	g := api.Group("/students", mw.Authenticate())
	g.GET("", mw.RequireRole(structs.RoleStudent, structs.RoleTeacher), m.handler.List)

	teacher := g.Group("", mw.RequireRole(structs.RoleTeacher))
	teacher.POST("", m.handler.Create)
	teacher.PUT("/:id", m.handler.Update)
	teacher.DELETE("/:id", m.handler.Delete)
}

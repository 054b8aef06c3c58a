package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/biz/task/service"
	"github.com/ncobase/classroom/biz/task/structs"
	"github.com/ncobase/classroom/core/auth/middleware"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/net/binding"
	"github.com/ncobase/classroom/net/resp"
)

// TaskHandler serves the /tasks routes
type TaskHandler struct {
	svc service.TaskServiceInterface
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(svc service.TaskServiceInterface) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create handles POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}

	var body structs.CreateTaskBody
	if err := binding.JSON(c, &body); err != nil {
		resp.Abort(c, err)
		return
	}

	task, err := h.svc.Create(c.Request.Context(), p, &body)
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Created(c.Writer, task)
}

// List handles GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}

	params := structs.NewListTaskParams(p.UserID, c.Query("status"), c.Query("priority"), c.Query("page"), c.Query("limit"))
	result, err := h.svc.List(c.Request.Context(), p, params)
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Success(c.Writer, result)
}

// Get handles GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}

	task, err := h.svc.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Success(c.Writer, task)
}

// Update handles PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}

	var body structs.UpdateTaskBody
	if err := binding.JSON(c, &body); err != nil {
		resp.Abort(c, err)
		return
	}

	task, err := h.svc.Update(c.Request.Context(), p, c.Param("id"), &body)
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Success(c.Writer, task)
}

// Delete handles DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Success(c.Writer, gin.H{"message": "Task deleted"})
}

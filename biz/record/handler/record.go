package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/biz/record/service"
	"github.com/ncobase/classroom/biz/record/structs"
	"github.com/ncobase/classroom/core/auth/middleware"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/net/binding"
	"github.com/ncobase/classroom/net/resp"
	"github.com/ncobase/classroom/paging"
)

// RecordHandler serves the /students routes
type RecordHandler struct {
	svc service.RecordServiceInterface
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(svc service.RecordServiceInterface) *RecordHandler {
	return &RecordHandler{svc: svc}
}

// Create handles POST /students
func (h *RecordHandler) Create(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}

	var body structs.CreateRecordBody
	if err := binding.JSON(c, &body); err != nil {
		resp.Abort(c, err)
		return
	}

	record, err := h.svc.Create(c.Request.Context(), p, &body)
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Created(c.Writer, record)
}

// List handles GET /students
func (h *RecordHandler) List(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}

	params := paging.ParseParams(c.Query("page"), c.Query("limit"))
	result, err := h.svc.List(c.Request.Context(), p, params)
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Success(c.Writer, result)
}

// Update handles PUT /students/:id
func (h *RecordHandler) Update(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}

	var body structs.UpdateRecordBody
	if err := binding.JSON(c, &body); err != nil {
		resp.Abort(c, err)
		return
	}

	record, err := h.svc.Update(c.Request.Context(), p, c.Param("id"), &body)
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Success(c.Writer, record)
}

// Delete handles DELETE /students/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Success(c.Writer, gin.H{"message": "Student record deleted"})
}

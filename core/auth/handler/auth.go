package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/core/auth/middleware"
	"github.com/ncobase/classroom/core/auth/service"
	"github.com/ncobase/classroom/core/auth/structs"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/net/binding"
	"github.com/ncobase/classroom/net/resp"
)

// AuthHandler serves the /auth routes
type AuthHandler struct {
	svc service.AuthServiceInterface
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var body structs.RegisterBody
	if err := binding.JSON(c, &body); err != nil {
		resp.Abort(c, err)
		return
	}

	result, err := h.svc.Register(c.Request.Context(), &body)
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Created(c.Writer, result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body structs.LoginBody
	if err := binding.JSON(c, &body); err != nil {
		resp.Abort(c, err)
		return
	}

	result, err := h.svc.Login(c.Request.Context(), &body)
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Success(c.Writer, result)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var body structs.RefreshBody
	if err := binding.JSON(c, &body); err != nil {
		resp.Abort(c, err)
		return
	}

	result, err := h.svc.Refresh(c.Request.Context(), &body)
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Success(c.Writer, result)
}

// Verify handles GET /auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}
	resp.Success(c.Writer, gin.H{"valid": true, "user": principal})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}

	user, err := h.svc.Me(c.Request.Context(), principal.UserID)
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Success(c.Writer, user)
}

// UpdateMe handles PUT /auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		resp.Abort(c, ecode.Authentication("Not authenticated"))
		return
	}

	var body structs.UpdateProfileBody
	if err := binding.JSON(c, &body); err != nil {
		resp.Abort(c, err)
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), principal.UserID, &body)
	if err != nil {
		resp.Abort(c, err)
		return
	}

	resp.Success(c.Writer, user)
}

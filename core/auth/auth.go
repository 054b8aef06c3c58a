// Package auth is the credential module: registration, login, token
// renewal and the middleware that guards every other route.
package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/core/auth/data/repository"
	"github.com/ncobase/classroom/core/auth/handler"
	"github.com/ncobase/classroom/core/auth/middleware"
	"github.com/ncobase/classroom/core/auth/service"
)

// Module bundles the auth components
type Module struct {
	Service    service.AuthServiceInterface
	Middleware *middleware.Middleware
	handler    *handler.AuthHandler
	users      repository.UserRepositoryInterface
}

// New creates the auth module
func New(
	svc service.AuthServiceInterface,
	users repository.UserRepositoryInterface,
	mw *middleware.Middleware,
	h *handler.AuthHandler,
) *Module {
	return &Module{Service: svc, Middleware: mw, handler: h, users: users}
}

// Init creates the user indexes
func (m *Module) Init(ctx context.Context) error {
	return m.users.EnsureIndexes(ctx)
}

// RegisterRoutes mounts /auth on api. limit guards the credential
// endpoints.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, limit gin.HandlerFunc) {
	g := api.Group("/auth")
	g.POST("/register", limit, m.handler.Register)
	g.POST("/login", limit, m.handler.Login)
	g.POST("/refresh", limit, m.handler.Refresh)

	authed := g.Group("", m.Middleware.Authenticate())
	authed.GET("/verify", m.handler.Verify)
	authed.GET("/me", m.handler.Me)
	authed.PUT("/me", m.handler.UpdateMe)
}

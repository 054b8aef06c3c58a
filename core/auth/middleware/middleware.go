package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/core/auth/service"
	"github.com/ncobase/classroom/core/auth/structs"
	"github.com/ncobase/classroom/ctxutil"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/ncobase/classroom/net/resp"
)

const bearerPrefix = "Bearer "

// Middleware gates routes on a verified access token
type Middleware struct {
	svc service.AuthServiceInterface
	log *logger.Logger
}

// NewMiddleware creates the auth middleware
func NewMiddleware(svc service.AuthServiceInterface, log *logger.Logger) *Middleware {
	if log == nil {
		log = logger.Discard()
	}
	return &Middleware{svc: svc, log: log}
}

// Authenticate verifies the bearer token and attaches the principal.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			resp.Abort(c, ecode.Authentication("Missing or invalid authorization header"))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		principal, err := m.svc.Verify(token)
		if err != nil {
			m.log.Debug(c.Request.Context(), "token rejected", "path", c.Request.URL.Path)
			resp.Abort(c, err)
			return
		}

		ctx := ctxutil.WithGinContext(c.Request.Context(), c)
		ctx = ctxutil.SetPrincipal(ctx, principal)
		ctx = ctxutil.SetUserID(ctx, principal.UserID)
		ctx = ctxutil.SetUserRole(ctx, string(principal.Role))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole lets through only principals holding one of roles.
func (m *Middleware) RequireRole(roles ...structs.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			resp.Abort(c, ecode.Authentication("Not authenticated"))
			return
		}

		if !slices.Contains(roles, principal.Role) {
			m.log.Warn(c.Request.Context(), "access denied",
				"user_id", principal.UserID, "role", string(principal.Role), "path", c.Request.URL.Path)
			resp.Abort(c, ecode.Authorization("Insufficient permissions"))
			return
		}

		c.Next()
	}
}

// CurrentPrincipal returns the principal attached by Authenticate
func CurrentPrincipal(c *gin.Context) (*structs.Principal, bool) {
	p, ok := ctxutil.GetPrincipal(ctxutil.WithGinContext(c.Request.Context(), c)).(*structs.Principal)
	return p, ok && p != nil
}

// Package server assembles the HTTP surface: middleware chain, module
// routes for the configured profile, health and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/biz/record"
	"github.com/ncobase/classroom/biz/task"
	"github.com/ncobase/classroom/config"
	"github.com/ncobase/classroom/core/auth"
	"github.com/ncobase/classroom/core/auth/structs"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/ncobase/classroom/net/binding"
	"github.com/ncobase/classroom/net/limiter"
	"github.com/ncobase/classroom/net/resp"
)

// Server is the HTTP application
type Server struct {
	config  *config.Config
	logger  *logger.Logger
	data    *data.Data
	profile structs.Profile
	limiter limiter.Limiter

	auth    *auth.Module
	tasks   *task.Module
	records *record.Module

	engine *gin.Engine
}

// NewServer creates the server for the configured profile
func NewServer(
	cfg *config.Config,
	log *logger.Logger,
	d *data.Data,
	authModule *auth.Module,
	tasks *task.Module,
	records *record.Module,
) (*Server, error) {
	if cfg == nil || cfg.Server == nil {
		return nil, fmt.Errorf("server config is nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if d == nil {
		return nil, fmt.Errorf("data layer not initialized")
	}

	profile, err := structs.ParseProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:  cfg,
		logger:  log,
		data:    d,
		profile: profile,
		auth:    authModule,
		tasks:   tasks,
		records: records,
	}

	if d.Redis != nil && cfg.Auth != nil && cfg.Auth.RateLimit != nil {
		s.limiter = limiter.NewRedisLimiter(d.Redis, cfg.Auth.RateLimit.Requests, cfg.Auth.RateLimit.Window)
	}

	return s, nil
}

// Logger returns the application logger
func (s *Server) Logger() *logger.Logger {
	return s.logger
}

// Init prepares the store for the mounted modules
func (s *Server) Init(ctx context.Context) error {
	if err := s.auth.Init(ctx); err != nil {
		return fmt.Errorf("init auth: %w", err)
	}

	switch s.profile {
	case structs.ProfileTasks:
		if err := s.tasks.Init(ctx); err != nil {
			return fmt.Errorf("init tasks: %w", err)
		}
	case structs.ProfileGrading:
		if err := s.records.Init(ctx); err != nil {
			return fmt.Errorf("init records: %w", err)
		}
	}
	return nil
}

// Router returns the engine, building it on first use
func (s *Server) Router() *gin.Engine {
	if s.engine == nil {
		s.engine = s.setupRouter()
	}
	return s.engine
}

func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(ginMode(s.config.Environment))

	responder := resp.NewResponder(s.logger, data.UnavailableClassifier)

	r := gin.New()
	r.Use(traceMiddleware())
	r.Use(s.loggerMiddleware())
	r.Use(responder.Middleware(), responder.Recovery())
	r.Use(corsMiddleware(s.config.Server.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		resp.Abort(c, ecode.NotFound("Route"))
	})

	api := r.Group("/api/v1", binding.LimitBody(s.config.Server.BodyLimit))
	api.GET("/health", s.handleHealth)

	s.auth.RegisterRoutes(api, limiter.Middleware(s.limiter, s.logger))

	switch s.profile {
	case structs.ProfileTasks:
		s.tasks.RegisterRoutes(api, s.auth.Middleware)
	case structs.ProfileGrading:
		s.records.RegisterRoutes(api, s.auth.Middleware)
	}

	return r
}

// Run serves until ctx is done, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadTimeout:       s.config.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.config.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting server", "addr", addr, "profile", string(s.profile))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	h := s.data.Health(c.Request.Context())

	body := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"database":  h.Database,
	}
	if h.Cache != nil {
		body["cache"] = h.Cache
	}
	resp.Success(c.Writer, body)
}

func ginMode(env string) string {
	switch env {
	case "production", "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

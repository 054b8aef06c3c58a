package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/ncobase/classroom/config"
	"github.com/ncobase/classroom/internal/server"
	"github.com/ncobase/classroom/logging/observes"
	"github.com/ncobase/classroom/version"
	"github.com/spf13/cobra"
)

// NewServeCommand starts the HTTP server
func NewServeCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	info := version.GetVersionInfo()

	flush, err := observes.NewSentry(&observes.SentryOptions{
		Dsn:         cfg.Observes.Sentry.Endpoint,
		Name:        cfg.AppName,
		Release:     info.Version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("failed to init sentry: %w", err)
	}
	defer flush()

	shutdownTracer, err := observes.NewTracer(&observes.TracerOption{
		URL:           cfg.Observes.Tracer.Endpoint,
		Name:          cfg.AppName,
		Version:       info.Version,
		Environment:   cfg.Environment,
		SamplingRate:  cfg.Observes.Tracer.SamplingRate,
		BatchTimeout:  cfg.Observes.Tracer.BatchTimeout,
		ExportTimeout: cfg.Observes.Tracer.ExportTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to init tracer: %w", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	srv, cleanup, err := server.InitializeServer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer cleanup()

	log := srv.Logger()
	log.SetVersion(info.Version)
	cfg.Watch(func(next *config.Config) {
		if err := log.SetLevelString(next.Logger.Level); err != nil {
			log.Warn(ctx, "ignoring log level change", "error", err)
			return
		}
		log.Info(ctx, "configuration reloaded", "level", next.Logger.Level)
	}, func(err error) {
		log.Warn(ctx, "configuration reload failed", "error", err)
	})

	if err := srv.Init(ctx); err != nil {
		return err
	}

	if err := srv.Run(ctx); err != nil {
		return err
	}

	log.Info(context.Background(), "Server exited")
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kubev2v/sqltoolkit/internal/config"
	"github.com/kubev2v/sqltoolkit/internal/handlers"
	"github.com/kubev2v/sqltoolkit/internal/logger"
	"github.com/kubev2v/sqltoolkit/internal/server"
	"github.com/kubev2v/sqltoolkit/internal/services"
	"github.com/kubev2v/sqltoolkit/internal/store"
	"github.com/kubev2v/sqltoolkit/pkg/scheduler"
)

const shutdownTimeout = 5 * time.Second

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	runCmd := &cobra.Command{
		Use:          "run",
		SilenceUsage: true,
		Short:        "Serve the query API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfiguration(cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := runCmd.Flags()
	flags.IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "Port of the HTTP server")
	flags.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "Server mode (dev, prod)")
	flags.StringVar(&cfg.Store.Path, "store-path", cfg.Store.Path, "DuckDB database used to validate queries, opened read-only")
	flags.IntVar(&cfg.Scheduler.NumWorkers, "num-workers", cfg.Scheduler.NumWorkers, "Number of workers rendering batches")

	return runCmd
}

func validateConfiguration(cfg *config.Configuration) error {
	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http-port: %d", cfg.Server.HTTPPort)
	}

	switch cfg.Server.ServerMode {
	case server.DevServer, server.ProductionServer:
	default:
		return fmt.Errorf("invalid server mode: %q", cfg.Server.ServerMode)
	}

	if cfg.Scheduler.NumWorkers < 1 {
		return fmt.Errorf("invalid num-workers: %d", cfg.Scheduler.NumWorkers)
	}

	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %q", cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case logger.ConsoleFormat, logger.JSONFormat:
	default:
		return fmt.Errorf("invalid log format: %q", cfg.Log.Format)
	}

	return nil
}

func run(ctx context.Context, cfg *config.Configuration) error {
	log := zap.S().Named("run")

	db, err := store.NewDB(cfg.Store.Path, store.WithReadOnly())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	st := store.NewStore(db)
	defer func() {
		if err := st.Close(); err != nil {
			log.Errorw("failed to close store", "error", err)
		}
	}()

	sched := scheduler.NewScheduler[string](cfg.Scheduler.NumWorkers)
	defer sched.Close()

	h := handlers.New(
		services.NewQueryService(st.Validator(), sched),
		services.NewCatalogService(st),
	)

	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		handlers.RegisterHandlers(router, h)
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	log.Infow("server started", "port", cfg.Server.HTTPPort, "mode", cfg.Server.ServerMode, "store", cfg.Store.Path)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.Stop(shutdownCtx)

	return nil
}

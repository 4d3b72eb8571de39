package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"TradeIQ/internal/domain/repository"
	"TradeIQ/internal/handler/jobs"
	"TradeIQ/pkg/config"
	xhttp "TradeIQ/pkg/http"
	applogger "TradeIQ/pkg/logger"
	"TradeIQ/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	consumer    *queue.RedisQueue
	scheduler   *jobs.Scheduler
	events      repository.EventPublisher
}

// New creates a new App instance with all dependencies. The consumer,
// scheduler and events publisher may be nil when their subsystems are
// disabled in config.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	consumer *queue.RedisQueue,
	scheduler *jobs.Scheduler,
	events repository.EventPublisher,
) *App {
	return &App{
		cfg:         cfg,
		logger:      log,
		httpHandler: handler,
		consumer:    consumer,
		scheduler:   scheduler,
		events:      events,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start queue consumer + scheduler when background scans are enabled
	if a.consumer != nil {
		if err := a.consumer.Start(); err != nil {
			a.logger.Error("queue start error", applogger.Error(err))
			return err
		}
		if a.scheduler != nil {
			a.scheduler.Start()
			a.logger.Info("scan scheduler started",
				applogger.Duration("interval", a.cfg.Queue.ScanInterval))
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// Stop producing scheduled runs before draining the queue
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.logger.Warn("queue stop error", applogger.Error(err))
		}
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Warn("event publisher close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}

// Package app assembles the staffing server from configuration and runs it
// until interrupted.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/ncobase/staffing/breaker"
	"github.com/ncobase/staffing/config"
	"github.com/ncobase/staffing/data"
	"github.com/ncobase/staffing/ecode"
	"github.com/ncobase/staffing/event"
	"github.com/ncobase/staffing/handler"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/logging/observes"
	"github.com/ncobase/staffing/messaging/email"
	"github.com/ncobase/staffing/middleware"
	"github.com/ncobase/staffing/net/resp"
	"github.com/ncobase/staffing/service"
	"github.com/ncobase/staffing/version"
)

// App represents the main application.
type App struct {
	config  *config.Config
	logger  *logger.Logger
	data    *data.Data
	bus     *event.Bus
	service *service.Service
	handler *handler.Handler
	server  *http.Server
}

// NewApp creates a new application instance with manual dependency
// injection. The returned cleanup releases the data layer, flushes
// telemetry and closes the logger.
func NewApp(cfg *config.Config) (*App, func(), error) {
	ctx := context.Background()

	log, cleanupLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log.SetVersion(version.Version)

	shutdownTracer, err := observes.NewTracer(ctx, cfg.Observes.Tracer, observes.TracerOption{
		Name:        cfg.AppName,
		Version:     version.Version,
		Environment: cfg.RunMode,
	})
	if err != nil {
		cleanupLogger()
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	sentryOn, err := observes.NewSentry(cfg.Observes.Sentry, cfg.AppName, version.Version)
	if err != nil {
		log.Warn(ctx, "sentry disabled", "error", err)
	}

	cleanupObserves := func() {
		if sentryOn {
			sentry.Flush(2 * time.Second)
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Warn(shutdownCtx, "tracer shutdown failed", "error", err)
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanupObserves()
		cleanupLogger()
		return nil, nil, err
	}

	d, cleanupData, err := data.New(cfg.Data, log)
	if err != nil {
		return fail(fmt.Errorf("failed to create data layer: %w", err))
	}

	sender, err := email.NewSender(cfg.Email)
	if err != nil {
		if !errors.Is(err, email.ErrNoProvider) {
			cleanupData()
			return fail(fmt.Errorf("failed to create email sender: %w", err))
		}
		log.Warn(ctx, "no email provider configured, mails will be skipped")
	}
	sender = email.Guard(sender, breaker.New("email", cfg.Breaker, log))

	bus := event.NewBus(cfg.Event.BufferSize, log)
	svc := service.NewService(cfg, d, bus, sender, log)

	var pub event.Publisher
	if d.Publisher != nil {
		pub = event.Guard(d.Publisher, breaker.New("rabbitmq", cfg.Breaker, log))
	}
	svc.Subscribe(bus, pub)

	if err := svc.Account.EnsureManagers(ctx, cfg.Auth.Managers); err != nil {
		cleanupData()
		return fail(err)
	}

	app := &App{
		config:  cfg,
		logger:  log,
		data:    d,
		bus:     bus,
		service: svc,
		handler: handler.NewHandler(svc, log),
	}

	cleanup := func() {
		cleanupData()
		cleanupObserves()
		cleanupLogger()
	}
	return app, cleanup, nil
}

// Router builds the gin engine with middleware and routes.
func (a *App) Router() *gin.Engine {
	if a.config.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.Trace())
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.Logger(a.logger))

	a.handler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		health := a.data.Health(c.Request.Context())
		health["version"] = version.Version
		health["events"] = a.bus.GetStats()
		if health["status"] != "healthy" {
			resp.Fail(c.Writer, &resp.Exception{
				Status:  http.StatusServiceUnavailable,
				Code:    ecode.ServerErr,
				Message: "service degraded",
				Errors:  health,
			})
			return
		}
		resp.Success(c.Writer, health)
	})

	return router
}

// Run starts the event workers and the HTTP server, then blocks until ctx
// is cancelled or the process receives SIGINT or SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	busCtx, stopBus := context.WithCancel(context.Background())
	a.bus.Start(busCtx, a.config.Event.Workers)

	a.config.Watch(func(next *config.Config) {
		a.logger.ApplyLevel(next.Logger.Level)
		a.logger.Info(context.Background(), "configuration reloaded", "log_level", next.Logger.Level)
	})

	addr := a.config.Addr()
	a.server = &http.Server{
		Addr:         addr,
		Handler:      a.Router(),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(context.Background(), "Starting server", "addr", addr, "version", version.Version)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	a.logger.Info(context.Background(), "Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error(shutdownCtx, "Server forced to shutdown", "error", err)
		if serveErr == nil {
			serveErr = err
		}
	}

	// Requests have drained; let the workers flush queued events.
	stopBus()
	a.bus.Wait()

	a.logger.Info(context.Background(), "Server exited")
	return serveErr
}

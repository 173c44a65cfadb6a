// Package app wires configuration, logging, the listing store, the analysis
// service and the HTTP server into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"estatepulse/internal/config"
	apierrors "estatepulse/internal/errors"
	"estatepulse/internal/infrastructure"
	"estatepulse/internal/metrics"
	"estatepulse/internal/middleware"
	"estatepulse/internal/services"
	"estatepulse/internal/store"
	transporthttp "estatepulse/internal/transport/http"
)

// Version is the application version, overridable at build time with
// -ldflags "-X estatepulse/internal/app.Version=...".
var Version = "dev"

// Application holds the composed components of the server.
type Application struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	service *services.AnalysisService
	server  *http.Server
	cleanup []func()
}

// NewApplication builds the application from configuration. The listing
// store is chosen by the configured data source.
func NewApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &Application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.New(),
	}

	listingStore, err := app.buildStore(ctx)
	if err != nil {
		return nil, err
	}

	app.service = services.NewAnalysisService(listingStore, logger)

	app.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.buildRouter(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// buildStore selects the listing loader from the data configuration.
func (a *Application) buildStore(ctx context.Context) (services.ListingStore, error) {
	switch a.config.Data.Source {
	case config.SourceCSV:
		return store.NewCSVStore(a.config.Data.ListingsFile, a.logger), nil
	case config.SourceExcel:
		return store.NewExcelStore(a.config.Data.ListingsFile, a.config.Data.SheetName, a.logger), nil
	case config.SourcePostgres:
		pg, err := store.NewPostgresStore(ctx, a.config.Database, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect postgres store: %w", err)
		}
		a.cleanup = append(a.cleanup, pg.Close)
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown data source: %q", a.config.Data.Source)
	}
}

// buildRouter assembles the middleware chain and routes.
func (a *Application) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(a.logger))
	r.Use(middleware.Recoverer(a.logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Compress(5))
	r.Use(a.metrics.Middleware)

	if a.config.Security.EnableCORS {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: a.config.Security.AllowedOrigins,
		}))
	}
	if a.config.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			a.config.Security.RateLimit.RPS,
			a.config.Security.RateLimit.Burst,
			a.logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.logger)
	analysisHandler := transporthttp.NewAnalysisHandler(a.service, errorHandler, a.metrics, a.logger)
	healthHandler := transporthttp.NewHealthHandler(a.service, Version, a.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/price-analysis", analysisHandler.GetPriceAnalysis)
		r.Get("/health", healthHandler.GetHealth)
	})
	r.Handle("/metrics", a.metrics.Handler())

	return r
}

// Run starts the HTTP server and blocks until the context is cancelled or a
// shutdown signal arrives, then drains in-flight requests.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			"addr", a.server.Addr,
			"version", Version,
			"data_source", a.config.Data.Source,
		)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, fn := range a.cleanup {
		fn()
	}
	infrastructure.CloseLogFile()

	a.logger.Info("server stopped")
	return nil
}

// Handler exposes the router for tests.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

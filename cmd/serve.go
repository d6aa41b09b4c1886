package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"acmeledger/internal/common"
	"acmeledger/internal/config"
	"acmeledger/internal/handlers"
	"acmeledger/internal/jobs/background"
	"acmeledger/internal/middleware"
	"acmeledger/internal/reports"
	"acmeledger/internal/services"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(getConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, getConfig())
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	cache := newCache(cfg)
	archiver, err := newArchiver(cfg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reportService := services.NewReportService(services.ReportConfig{
		Store:    store,
		Renderer: newRenderer(cfg),
		Cache:    cache,
		CacheTTL: cfg.ReportCacheTTL,
		Metrics:  reports.NewMetrics(registry),
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.HTTPErrorHandler

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.NewHTTPMetrics(registry).Middleware())
	e.Use(middleware.RequestLogger())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(middleware.NewVersionMiddleware(version).VersionHeader())

	handlers.RegisterRoutes(e, handlers.Handlers{
		Companies: handlers.NewCompanyHandlers(services.NewCompanyService(store.Companies, cache)),
		Dashboard: handlers.NewDashboardHandlers(services.NewDashboardCompanyService(store.DashboardCompanies, cache)),
		Inventory: handlers.NewInventoryHandlers(services.NewInventoryService(store.Inventories, cache)),
		Users:     handlers.NewUserHandlers(services.NewUserService(store.Users)),
		Reports:   handlers.NewReportHandlers(reportService, archiver),
		Health:    handlers.NewHealthHandlers(store.Ping, cache, version),
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if archiver != nil {
		scheduler, err := background.NewJobScheduler(reportService, archiver, cfg.ReportArchiveCron)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Error().Err(err).Msg("failed to stop job scheduler")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("version", version).Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("acmeledger server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

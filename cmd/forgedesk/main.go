package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/forgedesk/forgedesk/internal/app"
	"github.com/forgedesk/forgedesk/internal/dashboard"
	dashboardhttp "github.com/forgedesk/forgedesk/internal/dashboard/http"
	"github.com/forgedesk/forgedesk/internal/observability"
	"github.com/forgedesk/forgedesk/internal/platform/cache"
	"github.com/forgedesk/forgedesk/internal/platform/db"
	"github.com/forgedesk/forgedesk/internal/shop"
	"github.com/forgedesk/forgedesk/internal/snapshot"
	"github.com/forgedesk/forgedesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, serving without cache", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	shopClient := shop.NewClient(shop.Config{
		BaseURL:  cfg.ShopAPIURL,
		Token:    cfg.ShopAPIToken,
		SalesKey: cfg.ShopAPISalesKey,
		Timeout:  cfg.ShopAPITimeout,
	})
	if err := shopClient.Ping(ctx); err != nil {
		logger.Warn("shop api ping", slog.Any("error", err))
	}

	metrics := observability.NewMetrics()

	summaryCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	if err := summaryCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	dashboardService := dashboard.NewService(shopClient, summaryCache, logger, metrics)
	snapshotRepo := snapshot.NewRepository(dbpool)
	dashboardHandler := dashboardhttp.NewHandler(logger, dashboardService, snapshotRepo)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		DashboardHandler: dashboardHandler,
		JobsHandler:      jobsHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

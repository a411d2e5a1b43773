package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/forgedesk/forgedesk/internal/app"
	"github.com/forgedesk/forgedesk/internal/dashboard"
	jobmetrics "github.com/forgedesk/forgedesk/internal/jobs"
	"github.com/forgedesk/forgedesk/internal/platform/cache"
	"github.com/forgedesk/forgedesk/internal/platform/db"
	"github.com/forgedesk/forgedesk/internal/shop"
	"github.com/forgedesk/forgedesk/internal/snapshot"
	"github.com/forgedesk/forgedesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
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

	summaryCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	if err := summaryCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	dashboardService := dashboard.NewService(shopClient, summaryCache, logger, nil)
	snapshotRepo := snapshot.NewRepository(pool)
	metrics := jobmetrics.NewMetrics(nil)

	warmupJob := jobs.NewDashboardWarmupJob(dashboardService, logger, metrics)
	snapshotJob := jobs.NewDashboardSnapshotJob(dashboardService, snapshotRepo, logger, metrics)

	warmupTask, err := jobs.NewDashboardWarmupTask("scheduled")
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	snapshotTask, err := jobs.NewDashboardSnapshotTask("scheduled")
	if err != nil {
		logger.Error("build snapshot task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDashboardWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskDashboardSnapshot, Handler: snapshotJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/15 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "10 0 * * *", Task: snapshotTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

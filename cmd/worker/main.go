package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"estate-hub/internal/bootstrap"
	"estate-hub/internal/cachemonitor"
	"estate-hub/internal/config"
	"estate-hub/internal/handler/http/respond"
	"estate-hub/internal/infra/db"
	workerPkg "estate-hub/internal/infra/worker"
	"estate-hub/internal/observability/logging"
	cfgload "estate-hub/internal/pkg/config"
	"estate-hub/internal/usecase/warmup"
	envcfg "estate-hub/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerMetrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	workerConfig := workerPkg.LoadConfigFromEnv(workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("warmup_schedule", workerConfig.WarmupSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("concurrency", workerConfig.Concurrency),
		slog.Float64("rate_per_second", workerConfig.RatePerSecond),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	resilience, err := config.LoadResilienceFromEnv()
	if err != nil {
		logger.Error("failed to load resilience profiles", slog.Any("error", err))
		os.Exit(1)
	}
	appEnv := envcfg.GetEnvString("APP_ENV", "development")
	cacheCfg := config.LoadCache(workerMetrics.ConfigMetrics)
	listingCfg := config.LoadListings(workerMetrics.ConfigMetrics, appEnv)
	// The warmer must see real failures, never an empty fallback.
	listingCfg.Fallback = config.FallbackPropagate

	database := initDatabase(ctx, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	monitor := cachemonitor.Default()
	prometheus.MustRegister(cachemonitor.NewCollector(monitor))

	tier := bootstrap.NewCacheTier(ctx, cacheCfg, resilience)
	defer func() {
		if err := tier.Close(); err != nil {
			logger.Error("failed to close cache", slog.Any("error", err))
		}
	}()
	if tier.Pinger == nil {
		logger.Warn("REDIS_ADDRS not set: warming an in-process cache that no API replica reads")
	}

	listingSvc, _, err := bootstrap.NewListingService(database, tier.Store, cacheCfg, listingCfg, resilience, monitor)
	if err != nil {
		logger.Error("failed to create listing service", slog.Any("error", err))
		os.Exit(1)
	}
	warmer := warmup.NewService(listingSvc, warmup.Config{
		Concurrency:   workerConfig.Concurrency,
		RatePerSecond: workerConfig.RatePerSecond,
		Burst:         workerConfig.Burst,
	})

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	mountOpsRoutes(healthServer, monitor, prometheus.DefaultGatherer)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	runCronWorker(ctx, logger, warmer, workerConfig, workerMetrics, healthServer)
}

// initDatabase opens the database and waits for the API to have migrated it.
func initDatabase(ctx context.Context, logger *slog.Logger) *sql.DB {
	database, err := db.Open(ctx)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	waitForMigrations(ctx, logger, database)
	return database
}

func waitForMigrations(ctx context.Context, logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM listings LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.ExecContext(ctx, probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		select {
		case <-ctx.Done():
			os.Exit(1)
		case <-time.After(3 * time.Second):
		}
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

// runCronWorker schedules the warmup and blocks until ctx is cancelled.
func runCronWorker(
	ctx context.Context,
	logger *slog.Logger,
	warmer *warmup.Service,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
	healthServer *workerPkg.HealthServer,
) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc), cron.WithParser(cfgload.CronParser()))

	job := func() { runWarmupJob(ctx, logger, warmer, cfg, metrics, healthServer) }
	if _, err := c.AddFunc(cfg.WarmupSchedule, job); err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	if cfg.WarmOnStart {
		go job()
	}

	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.WarmupSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("worker stopping, waiting for running jobs")
	<-c.Stop().Done()
	logger.Info("worker stopped")
}

// runWarmupJob executes one warmup bounded by cfg.RunTimeout.
func runWarmupJob(
	ctx context.Context,
	logger *slog.Logger,
	warmer *warmup.Service,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
	healthServer *workerPkg.HealthServer,
) {
	startTime := time.Now()
	metrics.RecordJobRun(workerPkg.JobStarted)

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	stats, err := warmer.Run(runCtx)
	metrics.RecordJobDuration(time.Since(startTime).Seconds())

	switch {
	case errors.Is(err, warmup.ErrRunInProgress):
		metrics.RecordJobRun(workerPkg.JobSkipped)
		logger.Warn("warmup skipped: previous run still in progress")
		return
	case err != nil:
		metrics.RecordJobRun(workerPkg.JobFailure)
		logger.Error("warmup job failed", slog.Any("error", respond.SanitizeError(err)))
	default:
		metrics.RecordJobRun(workerPkg.JobSuccess)
		metrics.RecordLastSuccess()
	}

	status := workerPkg.RunStatus{FinishedAt: time.Now().UTC(), Succeeded: err == nil}
	if stats != nil {
		status.Listings = int(stats.Listings)
		status.Failed = int(stats.Failed)
	}
	healthServer.SetLastRun(status)
}

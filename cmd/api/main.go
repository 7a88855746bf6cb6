package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"estate-hub/internal/bootstrap"
	"estate-hub/internal/cachemonitor"
	"estate-hub/internal/config"
	hhttp "estate-hub/internal/handler/http"
	hlisting "estate-hub/internal/handler/http/listing"
	hmonitor "estate-hub/internal/handler/http/monitor"
	"estate-hub/internal/handler/http/requestid"
	"estate-hub/internal/infra/db"
	"estate-hub/internal/observability/logging"
	"estate-hub/internal/observability/slo"
	"estate-hub/internal/observability/tracing"
	envcfg "estate-hub/pkg/config"
)

// @title           Estate Hub API
// @version         1.0
// @description     Listings, communities and cache operations for the estate marketing site.
// @BasePath        /

const (
	sloWindow          = 10000
	sloPublishInterval = 15 * time.Second
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.LoadAPI(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database := initDatabase(ctx, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := envcfg.GetEnvString("VERSION", "dev")
	handler, tracker, closeCache := setupServer(ctx, logger, cfg, database, version)
	defer func() {
		if err := closeCache(); err != nil {
			logger.Error("failed to close cache", slog.Any("error", err))
		}
	}()

	go tracker.Run(ctx, sloPublishInterval)

	runServer(ctx, cancel, logger, cfg.Addr, handler, version)
}

// initDatabase opens the database and applies migrations.
func initDatabase(ctx context.Context, logger *slog.Logger) *sql.DB {
	database, err := db.Open(ctx)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// setupServer wires the cache tier, the listing service and every route, and
// returns the handler wrapped in the middleware chain.
func setupServer(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.API,
	database *sql.DB,
	version string,
) (http.Handler, *slo.Tracker, func() error) {
	monitor := cachemonitor.Default()
	prometheus.MustRegister(cachemonitor.NewCollector(monitor))

	tier := bootstrap.NewCacheTier(ctx, cfg.Cache, cfg.Resilience)
	listingSvc, _, err := bootstrap.NewListingService(database, tier.Store, cfg.Cache, cfg.Listings, cfg.Resilience, monitor)
	if err != nil {
		logger.Error("failed to create listing service", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("listing service ready",
		slog.String("fallback_policy", string(listingSvc.Policy())),
		slog.Duration("cache_ttl", cfg.Cache.TTL))

	mux := http.NewServeMux()
	hlisting.Register(mux, listingSvc)
	hmonitor.Register(mux, monitor)

	mux.Handle("/health", &hhttp.HealthHandler{
		DB:           database,
		Cache:        tier.Pinger,
		CacheBreaker: tier.Breaker,
		Monitor:      monitor,
		Version:      version,
	})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler(prometheus.DefaultGatherer))

	tracker := slo.NewTracker(sloWindow)
	middlewares := []func(http.Handler) http.Handler{
		requestid.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		tracing.Middleware,
		hhttp.Metrics(tracker),
	}
	if limiter := newRateLimiter(ctx, logger); limiter != nil {
		middlewares = append(middlewares, limiter.Limit)
	}
	middlewares = append(middlewares,
		hhttp.LimitRequestBody(cfg.MaxBodyBytes),
		hhttp.Timeout(cfg.RequestTimeout),
	)

	return hhttp.Chain(mux, middlewares...), tracker, tier.Close
}

// newRateLimiter returns the per-client limiter when RATE_LIMIT_RPS is
// positive, and starts its cleanup loop.
func newRateLimiter(ctx context.Context, logger *slog.Logger) *hhttp.RateLimiter {
	rps := envcfg.GetEnvFloat("RATE_LIMIT_RPS", 0)
	if rps <= 0 {
		logger.Info("rate limiting disabled")
		return nil
	}
	burst := envcfg.GetEnvInt("RATE_LIMIT_BURST", 20)
	limiter := hhttp.NewRateLimiter(rps, burst, 10*time.Minute)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := limiter.Cleanup(); n > 0 {
					logger.Debug("rate limiter cleanup", slog.Int("removed", n), slog.Int("tracked", limiter.Len()))
				}
			}
		}
	}()

	logger.Info("rate limiting enabled", slog.Float64("rps", rps), slog.Int("burst", burst))
	return limiter
}

// runServer serves until SIGINT or SIGTERM, then shuts down gracefully.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, addr string, handler http.Handler, version string) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Slowloris
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Shutdown first: BaseContext is ctx, so cancelling it would abort in-flight requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("server stopped")
}

// Package warmup refreshes the listing cache ahead of expiry so that page
// renders rarely hit the database directly.
package warmup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"estate-hub/internal/domain/entity"
	"estate-hub/internal/observability/metrics"
	"estate-hub/internal/usecase/listing"
)

// ErrRunInProgress is returned when Run is called while a run is active.
var ErrRunInProgress = errors.New("warmup already running")

// Refresher reloads cache entries from the source of truth.
// *listing.Service implements it.
type Refresher interface {
	RefreshFeatured(ctx context.Context) error
	RefreshCommunities(ctx context.Context) ([]*entity.Community, error)
	RefreshCommunity(ctx context.Context, community string) (int, error)
}

// Config controls how hard a run may push the database.
type Config struct {
	Concurrency   int     // communities refreshed in parallel
	RatePerSecond float64 // community refreshes started per second, 0 = unlimited
	Burst         int
}

// DefaultConfig returns conservative warmup settings.
func DefaultConfig() Config {
	return Config{Concurrency: 4, RatePerSecond: 10, Burst: 4}
}

// Stats summarises one run.
type Stats struct {
	Communities int
	Listings    int64
	Failed      int64
	Duration    time.Duration
}

// Service runs cache warmups.
type Service struct {
	refresher Refresher
	cfg       Config
	running   atomic.Bool
}

// NewService creates a warmup Service.
func NewService(r Refresher, cfg Config) *Service {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &Service{refresher: r, cfg: cfg}
}

func (s *Service) limiter() *rate.Limiter {
	if s.cfg.RatePerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, s.cfg.Burst)
	}
	return rate.NewLimiter(rate.Limit(s.cfg.RatePerSecond), s.cfg.Burst)
}

// Run refreshes the featured strip, the community index and every community
// page. A failing featured or community refresh is logged and counted; only a
// failure to list communities or a cancelled ctx aborts the run.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	logger := slog.Default()
	start := time.Now()
	stats := &Stats{}

	err := s.run(ctx, stats)
	stats.Duration = time.Since(start)
	metrics.RecordWarmupRun(stats.Duration, err)
	if err != nil {
		logger.Error("cache warmup failed",
			slog.Int("communities", stats.Communities),
			slog.Int64("failed", stats.Failed),
			slog.Any("error", err))
		return stats, err
	}

	logger.Info("cache warmup completed",
		slog.Int("communities", stats.Communities),
		slog.Int64("listings", stats.Listings),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

func (s *Service) run(ctx context.Context, stats *Stats) error {
	logger := slog.Default()

	err := s.refresher.RefreshFeatured(ctx)
	metrics.RecordWarmupKey(listing.NamespaceFeatured, err)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		atomic.AddInt64(&stats.Failed, 1)
		logger.Warn("featured warmup failed", slog.Any("error", err))
	}

	communities, err := s.refresher.RefreshCommunities(ctx)
	metrics.RecordWarmupKey(listing.NamespaceCommunities, err)
	if err != nil {
		return fmt.Errorf("list communities: %w", err)
	}
	stats.Communities = len(communities)

	limiter := s.limiter()
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.Concurrency)

	for _, c := range communities {
		slug := c.Slug
		eg.Go(func() error {
			if err := limiter.Wait(egCtx); err != nil {
				return err
			}
			n, err := s.refresher.RefreshCommunity(egCtx, slug)
			metrics.RecordWarmupKey(listing.NamespaceCommunity, err)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				atomic.AddInt64(&stats.Failed, 1)
				logger.Warn("community warmup failed",
					slog.String("community", slug),
					slog.Any("error", err))
				return nil
			}
			atomic.AddInt64(&stats.Listings, int64(n))
			return nil
		})
	}
	return eg.Wait()
}

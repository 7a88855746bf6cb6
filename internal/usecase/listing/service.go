package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"estate-hub/internal/cache"
	"estate-hub/internal/domain/entity"
	"estate-hub/internal/observability/logging"
	"estate-hub/internal/observability/metrics"
	"estate-hub/internal/repository"
	"estate-hub/internal/resilience/retry"
)

// Cache namespaces, also the buckets reported to the cache monitor.
const (
	NamespaceFeatured    = "listings:featured"
	NamespaceSlug        = "listings:slug"
	NamespaceCommunity   = "listings:community"
	NamespaceCommunities = "communities"
)

// Config configures a Service.
type Config struct {
	Policy         Policy
	TTL            time.Duration
	NegativeTTL    time.Duration // TTL of cached "no such slug" results
	FeaturedLimit  int
	CommunityLimit int
	Retry          retry.Config
	Codec          cache.Codec
	Recorder       cache.Recorder
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Policy:         PolicyPropagate,
		TTL:            5 * time.Minute,
		NegativeTTL:    30 * time.Second,
		FeaturedLimit:  6,
		CommunityLimit: 24,
		Retry:          retry.DBConfig(),
	}
}

// Service provides the listing read use cases.
type Service struct {
	repo repository.ListingRepository
	cfg  Config

	featured    *cache.Loader[[]*entity.Listing]
	bySlug      *cache.Loader[*entity.Listing]
	byCommunity *cache.Loader[[]*entity.Listing]
	communities *cache.Loader[[]*entity.Community]
}

// NewService wires the loaders of every read over store.
func NewService(repo repository.ListingRepository, store cache.Store, cfg Config) *Service {
	if cfg.Policy == "" {
		cfg.Policy = PolicyPropagate
	}
	// A shared load outlives the request that started it, so it is bounded by
	// the retry budget instead.
	loadTimeout := retry.Budget(cfg.Retry)
	return &Service{
		repo: repo,
		cfg:  cfg,
		featured: cache.NewLoader(store, cache.LoaderConfig[[]*entity.Listing]{
			Namespace: NamespaceFeatured, TTL: cfg.TTL, Codec: cfg.Codec, Recorder: cfg.Recorder, LoadTimeout: loadTimeout,
		}),
		bySlug: cache.NewLoader(store, cache.LoaderConfig[*entity.Listing]{
			Namespace: NamespaceSlug,
			TTL:       cfg.TTL,
			TTLFor: func(l *entity.Listing) time.Duration {
				if l == nil {
					return cfg.NegativeTTL
				}
				return cfg.TTL
			},
			Codec:       cfg.Codec,
			Recorder:    cfg.Recorder,
			LoadTimeout: loadTimeout,
		}),
		byCommunity: cache.NewLoader(store, cache.LoaderConfig[[]*entity.Listing]{
			Namespace: NamespaceCommunity, TTL: cfg.TTL, Codec: cfg.Codec, Recorder: cfg.Recorder, LoadTimeout: loadTimeout,
		}),
		communities: cache.NewLoader(store, cache.LoaderConfig[[]*entity.Community]{
			Namespace: NamespaceCommunities, TTL: cfg.TTL, Codec: cfg.Codec, Recorder: cfg.Recorder, LoadTimeout: loadTimeout,
		}),
	}
}

// Policy returns the configured fallback policy.
func (s *Service) Policy() Policy {
	return s.cfg.Policy
}

// Featured returns the featured strip.
func (s *Service) Featured(ctx context.Context) ([]*entity.Listing, error) {
	limit := s.cfg.FeaturedLimit
	listings, err := s.featured.Get(ctx, strconv.Itoa(limit), func(ctx context.Context) ([]*entity.Listing, error) {
		return retry.Do(ctx, "listing.featured", s.cfg.Retry, func(ctx context.Context) ([]*entity.Listing, error) {
			return s.repo.ListFeatured(ctx, limit)
		})
	})
	if err != nil {
		return fallback(ctx, s.cfg.Policy, "featured", err, []*entity.Listing{})
	}
	metrics.RecordListingRead("featured", metrics.ReadSuccess)
	return listings, nil
}

// BySlug returns one listing. Unknown slugs yield ErrListingNotFound and are
// cached for NegativeTTL. Outages always propagate: a single listing has no
// meaningful empty value.
func (s *Service) BySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, &entity.ValidationError{Field: "slug", Message: "is required"}
	}

	l, err := s.bySlug.Get(ctx, slug, func(ctx context.Context) (*entity.Listing, error) {
		return retry.Do(ctx, "listing.by_slug", s.cfg.Retry, func(ctx context.Context) (*entity.Listing, error) {
			return s.repo.GetBySlug(ctx, slug)
		})
	})
	if err != nil {
		metrics.RecordListingRead("by_slug", metrics.ReadError)
		return nil, fmt.Errorf("get listing %q: %w", slug, err)
	}
	if l == nil {
		metrics.RecordListingRead("by_slug", metrics.ReadNotFound)
		return nil, ErrListingNotFound
	}
	metrics.RecordListingRead("by_slug", metrics.ReadSuccess)
	return l, nil
}

// ByCommunity returns the listings of one community.
func (s *Service) ByCommunity(ctx context.Context, community string) ([]*entity.Listing, error) {
	if strings.TrimSpace(community) == "" {
		return nil, &entity.ValidationError{Field: "community", Message: "is required"}
	}

	limit := s.cfg.CommunityLimit
	key := community + ":" + strconv.Itoa(limit)
	listings, err := s.byCommunity.Get(ctx, key, func(ctx context.Context) ([]*entity.Listing, error) {
		return retry.Do(ctx, "listing.by_community", s.cfg.Retry, func(ctx context.Context) ([]*entity.Listing, error) {
			return s.repo.ListByCommunity(ctx, community, limit)
		})
	})
	if err != nil {
		return fallback(ctx, s.cfg.Policy, "community", err, []*entity.Listing{})
	}
	metrics.RecordListingRead("community", metrics.ReadSuccess)
	return listings, nil
}

// Communities returns the community index.
func (s *Service) Communities(ctx context.Context) ([]*entity.Community, error) {
	communities, err := s.communities.Get(ctx, "all", func(ctx context.Context) ([]*entity.Community, error) {
		return retry.Do(ctx, "listing.communities", s.cfg.Retry, func(ctx context.Context) ([]*entity.Community, error) {
			return s.repo.ListCommunities(ctx)
		})
	})
	if err != nil {
		return fallback(ctx, s.cfg.Policy, "communities", err, []*entity.Community{})
	}
	metrics.RecordListingRead("communities", metrics.ReadSuccess)
	return communities, nil
}

// Invalidate drops the cached entry of one listing and every collection that
// may contain it.
func (s *Service) Invalidate(ctx context.Context, l *entity.Listing) error {
	errs := []error{
		s.bySlug.Invalidate(ctx, l.Slug),
		s.featured.Invalidate(ctx, strconv.Itoa(s.cfg.FeaturedLimit)),
		s.byCommunity.Invalidate(ctx, l.Community+":"+strconv.Itoa(s.cfg.CommunityLimit)),
		s.communities.Invalidate(ctx, "all"),
	}
	return errors.Join(errs...)
}

// fallback applies policy to a failed collection read. Cancelled requests
// are never masked.
func fallback[T any](ctx context.Context, policy Policy, query string, err error, empty T) (T, error) {
	logger := logging.FromContext(ctx)
	if policy != PolicyEmpty || ctx.Err() != nil {
		metrics.RecordListingRead(query, metrics.ReadError)
		var zero T
		return zero, fmt.Errorf("%s listings: %w", query, err)
	}

	logger.Warn("listing read failed, serving empty result",
		slog.String("query", query),
		slog.String("policy", string(policy)),
		slog.Any("error", err))
	metrics.RecordListingFallback(query, string(policy))
	return empty, nil
}

// RefreshFeatured reloads the featured strip into the cache.
func (s *Service) RefreshFeatured(ctx context.Context) error {
	limit := s.cfg.FeaturedLimit
	listings, err := retry.Do(ctx, "listing.featured", s.cfg.Retry, func(ctx context.Context) ([]*entity.Listing, error) {
		return s.repo.ListFeatured(ctx, limit)
	})
	if err != nil {
		return fmt.Errorf("refresh featured: %w", err)
	}
	s.featured.Set(ctx, strconv.Itoa(limit), listings)
	return nil
}

// RefreshCommunities reloads the community index into the cache and returns it.
func (s *Service) RefreshCommunities(ctx context.Context) ([]*entity.Community, error) {
	communities, err := retry.Do(ctx, "listing.communities", s.cfg.Retry, func(ctx context.Context) ([]*entity.Community, error) {
		return s.repo.ListCommunities(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("refresh communities: %w", err)
	}
	s.communities.Set(ctx, "all", communities)
	return communities, nil
}

// RefreshCommunity reloads one community page and the listings on it.
func (s *Service) RefreshCommunity(ctx context.Context, community string) (int, error) {
	limit := s.cfg.CommunityLimit
	listings, err := retry.Do(ctx, "listing.by_community", s.cfg.Retry, func(ctx context.Context) ([]*entity.Listing, error) {
		return s.repo.ListByCommunity(ctx, community, limit)
	})
	if err != nil {
		return 0, fmt.Errorf("refresh community %q: %w", community, err)
	}
	s.byCommunity.Set(ctx, community+":"+strconv.Itoa(limit), listings)
	for _, l := range listings {
		s.bySlug.Set(ctx, l.Slug, l)
	}
	return len(listings), nil
}

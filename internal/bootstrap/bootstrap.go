// Package bootstrap assembles the components cmd/api and cmd/worker share:
// the cache tier and the listing service on top of Postgres.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"estate-hub/internal/cache"
	"estate-hub/internal/config"
	"estate-hub/internal/infra/adapter/persistence/postgres"
	"estate-hub/internal/resilience/circuitbreaker"
	"estate-hub/internal/usecase/listing"
)

// janitorInterval is how often the in-process store purges expired entries.
const janitorInterval = time.Minute

// CacheTier is the configured cache store plus what health checks need to
// observe it. Pinger and Breaker are nil for the in-process store.
type CacheTier struct {
	Store   cache.Store
	Pinger  interface{ Ping(ctx context.Context) error }
	Breaker interface{ State() string }
	Close   func() error
}

// NewCacheTier returns a Redis-backed store guarded by a circuit breaker and
// the "cache" retry profile when REDIS_ADDRS is set, otherwise an in-process
// store whose janitor runs until ctx is done.
func NewCacheTier(ctx context.Context, cfg config.Cache, res *config.Resilience) *CacheTier {
	if len(cfg.RedisAddrs) == 0 {
		mem := cache.NewMemoryStore()
		go mem.RunJanitor(ctx, janitorInterval)
		slog.Info("cache tier: in-process store")
		return &CacheTier{Store: mem, Close: func() error { return nil }}
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    cfg.RedisAddrs,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	remote := cache.NewRedisStore(client, cfg.KeyPrefix)
	guarded := cache.NewGuardedStore("redis", remote,
		circuitbreaker.New(circuitbreaker.CacheStoreConfig()),
		res.Profile(config.ProfileCache))

	slog.Info("cache tier: redis",
		slog.Any("addrs", cfg.RedisAddrs),
		slog.String("key_prefix", cfg.KeyPrefix),
		slog.String("codec", cfg.Codec))
	return &CacheTier{Store: guarded, Pinger: remote, Breaker: guarded, Close: client.Close}
}

// NewListingService builds the listing service over database, reading through
// a circuit breaker and retrying with the "db" profile.
func NewListingService(
	database *sql.DB,
	store cache.Store,
	cacheCfg config.Cache,
	listingCfg config.Listings,
	res *config.Resilience,
	recorder cache.Recorder,
) (*listing.Service, *circuitbreaker.DBCircuitBreaker, error) {
	policy, err := listing.ParsePolicy(listingCfg.Fallback)
	if err != nil {
		return nil, nil, fmt.Errorf("listing fallback: %w", err)
	}

	breaker := circuitbreaker.NewDBCircuitBreaker(database, circuitbreaker.DBConfig())
	svc := listing.NewService(postgres.NewListingRepo(breaker), store, listing.Config{
		Policy:         policy,
		TTL:            cacheCfg.TTL,
		NegativeTTL:    cacheCfg.NegativeTTL,
		FeaturedLimit:  listingCfg.FeaturedLimit,
		CommunityLimit: listingCfg.CommunityLimit,
		Retry:          res.Profile(config.ProfileDB),
		Codec:          cache.CodecByName(cacheCfg.Codec),
		Recorder:       recorder,
	})
	return svc, breaker, nil
}

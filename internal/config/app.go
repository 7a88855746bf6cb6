package config

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	cfgload "estate-hub/internal/pkg/config"
	envcfg "estate-hub/pkg/config"
)

// Fallback policy names accepted in LISTING_FALLBACK.
const (
	FallbackPropagate = "propagate"
	FallbackEmpty     = "empty"
)

// Cache settings shared by the API and the worker.
type Cache struct {
	RedisAddrs    []string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
	Codec         string
	TTL           time.Duration
	NegativeTTL   time.Duration
}

// Listings holds listing read settings.
type Listings struct {
	Fallback       string
	FeaturedLimit  int
	CommunityLimit int
}

// API is the configuration of cmd/api.
type API struct {
	Addr           string
	AppEnv         string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	Cache          Cache
	Listings       Listings
	Resilience     *Resilience
}

// DefaultFallback maps APP_ENV to the listing fallback policy: production
// serves empty results when the database is unavailable, every other
// environment surfaces the error.
func DefaultFallback(appEnv string) string {
	if appEnv == "production" {
		return FallbackEmpty
	}
	return FallbackPropagate
}

// LoadCache reads the cache settings.
func LoadCache(m *cfgload.ConfigMetrics) Cache {
	return Cache{
		RedisAddrs:    envcfg.GetEnvStringList("REDIS_ADDRS", nil),
		RedisPassword: envcfg.GetEnvString("REDIS_PASSWORD", ""),
		RedisDB:       cfgload.Observe(m, "redis_db", cfgload.LoadInt("REDIS_DB", 0, cfgload.IntRange(0, 15))),
		KeyPrefix:     envcfg.GetEnvString("CACHE_KEY_PREFIX", "estate"),
		Codec: cfgload.Observe(m, "cache_codec",
			cfgload.LoadString("CACHE_CODEC", "msgpack", cfgload.OneOf("msgpack", "json"))),
		TTL: cfgload.Observe(m, "cache_ttl",
			cfgload.LoadDuration("LISTING_CACHE_TTL", 5*time.Minute, cfgload.DurationRange(time.Second, 24*time.Hour))),
		NegativeTTL: cfgload.Observe(m, "cache_negative_ttl",
			cfgload.LoadDuration("LISTING_NEGATIVE_TTL", 30*time.Second, cfgload.DurationRange(time.Second, time.Hour))),
	}
}

// LoadListings reads the listing read settings for appEnv.
func LoadListings(m *cfgload.ConfigMetrics, appEnv string) Listings {
	return Listings{
		Fallback: cfgload.Observe(m, "listing_fallback",
			cfgload.LoadString("LISTING_FALLBACK", DefaultFallback(appEnv), cfgload.OneOf(FallbackPropagate, FallbackEmpty))),
		FeaturedLimit: cfgload.Observe(m, "featured_limit",
			cfgload.LoadInt("FEATURED_LIMIT", 6, cfgload.IntRange(1, 50))),
		CommunityLimit: cfgload.Observe(m, "community_limit",
			cfgload.LoadInt("COMMUNITY_LISTING_LIMIT", 24, cfgload.IntRange(1, 200))),
	}
}

// LoadResilienceFromEnv loads RESILIENCE_CONFIG when set, otherwise the
// built-in profiles.
func LoadResilienceFromEnv() (*Resilience, error) {
	path := envcfg.GetEnvString("RESILIENCE_CONFIG", "")
	if path == "" {
		return DefaultResilience(), nil
	}
	return LoadResilience(path)
}

// LoadAPI reads the API configuration. Invalid optional values fall back to
// defaults and are reported through reg; only an unreadable or invalid
// resilience file is an error.
func LoadAPI(reg prometheus.Registerer) (*API, error) {
	m := cfgload.NewConfigMetrics("api", reg)

	res, err := LoadResilienceFromEnv()
	if err != nil {
		return nil, err
	}

	appEnv := envcfg.GetEnvString("APP_ENV", "development")
	cfg := &API{
		Addr:   envcfg.GetEnvString("HTTP_ADDR", ":8080"),
		AppEnv: appEnv,
		RequestTimeout: cfgload.Observe(m, "request_timeout",
			cfgload.LoadDuration("REQUEST_TIMEOUT", 15*time.Second, cfgload.DurationRange(time.Second, 2*time.Minute))),
		MaxBodyBytes: int64(cfgload.Observe(m, "max_body_bytes",
			cfgload.LoadInt("MAX_BODY_BYTES", 1<<20, cfgload.IntRange(1<<10, 10<<20)))),
		Cache:      LoadCache(m),
		Listings:   LoadListings(m, appEnv),
		Resilience: res,
	}
	m.RecordLoadTimestamp()

	slog.Info("api configuration loaded",
		slog.String("app_env", cfg.AppEnv),
		slog.String("listing_fallback", cfg.Listings.Fallback),
		slog.Bool("redis", len(cfg.Cache.RedisAddrs) > 0),
		slog.Any("retry_profiles", res.Names()))
	return cfg, nil
}

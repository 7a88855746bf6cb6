package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"estate-hub/internal/observability/logging"
)

// LoaderConfig configures a Loader.
type LoaderConfig[T any] struct {
	// Namespace prefixes every key and names the Recorder bucket.
	Namespace string

	// TTL applies to every stored value unless TTLFor overrides it.
	TTL time.Duration

	// TTLFor optionally picks a per-value TTL, e.g. shorter for negative results.
	TTLFor func(v T) time.Duration

	// Codec defaults to MsgPack.
	Codec Codec

	// Recorder defaults to NopRecorder.
	Recorder Recorder

	// LoadTimeout bounds a shared load. Zero means DefaultLoadTimeout.
	LoadTimeout time.Duration
}

// DefaultLoadTimeout bounds a shared load when LoaderConfig.LoadTimeout is unset.
const DefaultLoadTimeout = 30 * time.Second

// Loader is a typed read-through accessor over a Store.
//
// Get serves a key from the store when it can and otherwise calls the supplied
// load function, storing its result. Concurrent misses on one key share a
// single load. The shared load runs detached from any one caller's
// cancellation, so a caller that gives up stops waiting without failing the
// others. Store failures never fail a read: they are recorded as errors and
// the value is loaded directly.
type Loader[T any] struct {
	cfg   LoaderConfig[T]
	store Store
	group singleflight.Group
}

// NewLoader creates a Loader over store.
func NewLoader[T any](store Store, cfg LoaderConfig[T]) *Loader[T] {
	if cfg.Codec == nil {
		cfg.Codec = MsgPack{}
	}
	if cfg.Recorder == nil {
		cfg.Recorder = NopRecorder{}
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	return &Loader[T]{cfg: cfg, store: store}
}

// Namespace returns the loader's namespace.
func (l *Loader[T]) Namespace() string {
	return l.cfg.Namespace
}

func (l *Loader[T]) key(k string) string {
	return l.cfg.Namespace + ":" + k
}

// Get returns the value for key, calling load on a miss.
//
// Outcomes reported to the Recorder: a decoded store value is a hit; an absent
// key is a miss; a store read, decode or write failure is an error; a failed
// load is an error and its error is returned.
func (l *Loader[T]) Get(ctx context.Context, key string, load func(ctx context.Context) (T, error)) (T, error) {
	ns := l.cfg.Namespace
	fullKey := l.key(key)
	logger := logging.FromContext(ctx)

	data, err := l.store.Get(ctx, fullKey)
	switch {
	case err == nil:
		var v T
		decErr := l.cfg.Codec.Unmarshal(data, &v)
		if decErr == nil {
			l.cfg.Recorder.RecordHit(ns)
			return v, nil
		}
		l.cfg.Recorder.RecordError(ns)
		logger.Warn("discarding undecodable cache entry",
			slog.String("namespace", ns),
			slog.String("key", key),
			slog.String("codec", l.cfg.Codec.Name()),
			slog.Any("error", decErr))
		_ = l.store.Delete(ctx, fullKey)
	case errors.Is(err, ErrMiss):
		l.cfg.Recorder.RecordMiss(ns)
	default:
		l.cfg.Recorder.RecordError(ns)
		logger.Warn("cache read failed, loading directly",
			slog.String("namespace", ns),
			slog.String("key", key),
			slog.Any("error", err))
	}

	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	ch := l.group.DoChan(fullKey, func() (interface{}, error) {
		// Keeps the leader's values (logger, trace) but not its cancellation.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.cfg.LoadTimeout)
		defer cancel()

		val, err := load(loadCtx)
		if err != nil {
			return val, err
		}
		l.put(loadCtx, fullKey, key, val)
		return val, nil
	})

	select {
	case <-ctx.Done():
		// Only this caller gave up; the load carries on for the others.
		return zero, ctx.Err()
	case res := <-ch:
		loaderLoadsTotal.WithLabelValues(ns, strconv.FormatBool(res.Shared)).Inc()
		if res.Err != nil {
			if ctx.Err() == nil {
				l.cfg.Recorder.RecordError(ns)
			}
			return zero, res.Err
		}
		val, _ := res.Val.(T)
		return val, nil
	}
}

func (l *Loader[T]) put(ctx context.Context, fullKey, key string, val T) {
	ttl := l.cfg.TTL
	if l.cfg.TTLFor != nil {
		ttl = l.cfg.TTLFor(val)
	}

	data, err := l.cfg.Codec.Marshal(val)
	if err == nil {
		err = l.store.Set(ctx, fullKey, data, ttl)
	}
	if err != nil {
		l.cfg.Recorder.RecordError(l.cfg.Namespace)
		logging.FromContext(ctx).Warn("cache write failed",
			slog.String("namespace", l.cfg.Namespace),
			slog.String("key", key),
			slog.Any("error", err))
	}
}

// Set stores v under key without loading. The cache warmer uses it to refresh
// entries ahead of expiry.
func (l *Loader[T]) Set(ctx context.Context, key string, v T) {
	l.put(ctx, l.key(key), key, v)
}

// Invalidate removes key from the store.
func (l *Loader[T]) Invalidate(ctx context.Context, key string) error {
	return l.store.Delete(ctx, l.key(key))
}

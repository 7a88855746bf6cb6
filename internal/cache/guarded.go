package cache

import (
	"context"
	"errors"
	"time"

	"estate-hub/internal/resilience/circuitbreaker"
	"estate-hub/internal/resilience/retry"
)

// GuardedStore protects a remote Store with a circuit breaker and a short
// retry budget. Misses pass through untouched and never count as failures.
type GuardedStore struct {
	name  string
	store Store
	cb    *circuitbreaker.CircuitBreaker
	retry retry.Config
}

// NewGuardedStore wraps store. name tags logs, metrics and retry labels.
func NewGuardedStore(name string, store Store, cb *circuitbreaker.CircuitBreaker, cfg retry.Config) *GuardedStore {
	return &GuardedStore{name: name, store: store, cb: cb, retry: cfg}
}

type lookup struct {
	data []byte
	miss bool
}

// Get implements Store.
func (g *GuardedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	res, err := retry.Do(ctx, g.name+".get", g.retry, func(ctx context.Context) (lookup, error) {
		v, err := g.execute(func() (interface{}, error) {
			data, err := g.store.Get(ctx, key)
			if errors.Is(err, ErrMiss) {
				return lookup{miss: true}, nil
			}
			if err != nil {
				return nil, err
			}
			return lookup{data: data}, nil
		})
		if err != nil {
			return lookup{}, err
		}
		return v.(lookup), nil
	})
	switch {
	case err != nil:
		observeStoreOp(g.name, "get", "error", time.Since(start))
		return nil, err
	case res.miss:
		observeStoreOp(g.name, "get", "miss", time.Since(start))
		return nil, ErrMiss
	default:
		observeStoreOp(g.name, "get", "hit", time.Since(start))
		return res.data, nil
	}
}

// Set implements Store.
func (g *GuardedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return g.write(ctx, "set", func(ctx context.Context) error {
		return g.store.Set(ctx, key, value, ttl)
	})
}

// Delete implements Store.
func (g *GuardedStore) Delete(ctx context.Context, key string) error {
	return g.write(ctx, "delete", func(ctx context.Context) error {
		return g.store.Delete(ctx, key)
	})
}

func (g *GuardedStore) write(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	_, err := retry.Do(ctx, g.name+"."+op, g.retry, func(ctx context.Context) (struct{}, error) {
		_, err := g.execute(func() (interface{}, error) {
			return nil, fn(ctx)
		})
		return struct{}{}, err
	})
	result := "ok"
	if err != nil {
		result = "error"
	}
	observeStoreOp(g.name, op, result, time.Since(start))
	return err
}

// execute runs fn through the breaker. An open breaker is final for this call.
func (g *GuardedStore) execute(fn func() (interface{}, error)) (interface{}, error) {
	v, err := g.cb.Execute(fn)
	if circuitbreaker.IsRejection(err) {
		return nil, retry.Permanent(err)
	}
	return v, err
}

// State reports the breaker state for health checks.
func (g *GuardedStore) State() string {
	return g.cb.State().String()
}

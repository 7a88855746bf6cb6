// Package retry provides a resilient call wrapper with per-attempt timeouts and
// capped exponential backoff. It helps callers ride out transient failures of
// database, cache and upstream calls without blocking forever on a slow one.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"estate-hub/internal/observability/tracing"
)

// Config holds the configuration for a single resilient call.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	// A call therefore makes at most MaxRetries+1 attempts.
	MaxRetries int

	// Timeout bounds each individual attempt. Zero disables the per-attempt deadline.
	Timeout time.Duration

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps every backoff step.
	MaxDelay time.Duration

	// JitterFraction is the fraction of delay to add as random jitter (0.0 to 1.0).
	// Jittered delays are still capped at MaxDelay.
	JitterFraction float64
}

// DefaultConfig returns a default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		Timeout:    10 * time.Second,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
	}
}

// DBConfig returns configuration optimized for database reads.
// Fast retry for transient connection issues.
func DBConfig() Config {
	return Config{
		MaxRetries:     2,
		Timeout:        3 * time.Second,
		BaseDelay:      100 * time.Millisecond,
		MaxDelay:       1 * time.Second,
		JitterFraction: 0.1,
	}
}

// CacheStoreConfig returns configuration for shared cache tier calls.
// A cache is optional, so give up quickly and let the caller fall through.
func CacheStoreConfig() Config {
	return Config{
		MaxRetries: 1,
		Timeout:    500 * time.Millisecond,
		BaseDelay:  50 * time.Millisecond,
		MaxDelay:   200 * time.Millisecond,
	}
}

// UpstreamConfig returns configuration for calls to internal HTTP APIs.
func UpstreamConfig() Config {
	return Config{
		MaxRetries:     3,
		Timeout:        5 * time.Second,
		BaseDelay:      500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		JitterFraction: 0.1,
	}
}

// Validate reports whether the configuration can be used.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.Timeout)
	}
	if c.BaseDelay < 0 {
		return fmt.Errorf("base delay must be non-negative, got %v", c.BaseDelay)
	}
	if c.MaxDelay < c.BaseDelay {
		return fmt.Errorf("max delay (%v) must be >= base delay (%v)", c.MaxDelay, c.BaseDelay)
	}
	if c.JitterFraction < 0 || c.JitterFraction > 1 {
		return fmt.Errorf("jitter fraction must be between 0 and 1, got %v", c.JitterFraction)
	}
	return nil
}

// Backoff returns the delay before retry k (1-indexed):
// min(BaseDelay * 2^(k-1), MaxDelay).
func Backoff(cfg Config, k int) time.Duration {
	if k < 1 || cfg.BaseDelay <= 0 {
		return 0
	}
	delay := cfg.BaseDelay
	for i := 1; i < k; i++ {
		// Doubling past MaxDelay (or overflowing) ends the growth.
		if delay >= cfg.MaxDelay || delay > delay<<1 {
			return cfg.MaxDelay
		}
		delay <<= 1
	}
	if delay > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return delay
}

// Budget is the longest a Do call under cfg can take: every attempt running
// to its timeout plus every backoff at its largest jittered value. It returns
// 0 when Timeout is 0, since attempts are then unbounded.
func Budget(cfg Config) time.Duration {
	if cfg.Timeout <= 0 {
		return 0
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	total := time.Duration(retries+1) * cfg.Timeout
	for k := 1; k <= retries; k++ {
		d := Backoff(cfg, k)
		d += time.Duration(float64(d) * cfg.JitterFraction)
		if d > cfg.MaxDelay {
			d = cfg.MaxDelay
		}
		total += d
	}
	return total
}

// sleepFn waits for d or until ctx is done. Tests replace it to observe delays.
var sleepFn = sleepContext

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type result[T any] struct {
	val T
	err error
}

// Do runs op with a per-attempt timeout and retries failures with capped
// exponential backoff. label tags logs, metrics and the trace span.
//
// op must be safe to repeat. Each attempt receives its own context that is
// cancelled when the attempt times out; Do stops waiting at that deadline even
// if op ignores the cancellation. Cancelling ctx aborts the call without retry.
//
// On success the value of the succeeding attempt is returned. When every
// attempt fails Do returns an *ExhaustedError wrapping the last failure.
func Do[T any](ctx context.Context, label string, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	maxAttempts := cfg.MaxRetries + 1

	ctx, span := tracing.GetTracer().Start(ctx, "retry "+label)
	defer span.End()
	span.SetAttributes(
		attribute.String("retry.label", label),
		attribute.Int("retry.max_attempts", maxAttempts),
	)

	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		val, err := runAttempt(ctx, label, attempt, cfg.Timeout, op)
		if err == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry",
					slog.String("label", label),
					slog.Int("attempt", attempt))
			}
			recordAttempt(label, outcomeSuccess)
			recordCall(label, resultSuccess, time.Since(start))
			span.SetAttributes(attribute.Int("retry.attempts", attempt))
			return val, nil
		}
		lastErr = err

		// The caller gave up; nothing left to retry for.
		if ctxErr := ctx.Err(); ctxErr != nil {
			recordAttempt(label, outcomeCanceled)
			recordCall(label, resultCanceled, time.Since(start))
			span.SetAttributes(attribute.Int("retry.attempts", attempt))
			span.SetStatus(codes.Error, "canceled")
			return zero, fmt.Errorf("%s: retry aborted: %w", label, ctxErr)
		}

		if errors.Is(err, ErrTimeout) {
			recordAttempt(label, outcomeTimeout)
		} else {
			recordAttempt(label, outcomeFailure)
		}

		if IsPermanent(err) {
			slog.Warn("non-retryable error, aborting",
				slog.String("label", label),
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			recordCall(label, resultPermanent, time.Since(start))
			span.SetAttributes(attribute.Int("retry.attempts", attempt))
			span.RecordError(err)
			span.SetStatus(codes.Error, "permanent failure")
			return zero, err
		}

		if attempt == maxAttempts {
			break
		}

		delay := withJitter(Backoff(cfg, attempt), cfg.JitterFraction, cfg.MaxDelay)
		slog.Warn("operation failed, retrying",
			slog.String("label", label),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		if err := sleepFn(ctx, delay); err != nil {
			recordCall(label, resultCanceled, time.Since(start))
			span.SetAttributes(attribute.Int("retry.attempts", attempt))
			span.SetStatus(codes.Error, "canceled")
			return zero, fmt.Errorf("%s: retry aborted: %w", label, err)
		}
	}

	exhausted := &ExhaustedError{Label: label, Attempts: maxAttempts, Err: lastErr}
	slog.Error("operation failed after all attempts",
		slog.String("label", label),
		slog.Int("attempts", maxAttempts),
		slog.Any("error", lastErr))
	recordExhausted(label)
	recordCall(label, resultExhausted, time.Since(start))
	span.SetAttributes(attribute.Int("retry.attempts", maxAttempts))
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "retries exhausted")
	return zero, exhausted
}

// runAttempt executes a single attempt bounded by timeout.
func runAttempt[T any](ctx context.Context, label string, attempt int, timeout time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return op(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so an attempt that outlives its deadline can still finish and exit.
	done := make(chan result[T], 1)
	go func() {
		val, err := op(attemptCtx)
		done <- result[T]{val: val, err: err}
	}()

	select {
	case res := <-done:
		// An op that honoured the attempt deadline reports it as its own error.
		if res.err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return res.val, &TimeoutError{Label: label, Attempt: attempt, Timeout: timeout, Cause: res.err}
		}
		return res.val, res.err
	case <-attemptCtx.Done():
		var zero T
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, &TimeoutError{Label: label, Attempt: attempt, Timeout: timeout}
	}
}

// withJitter adds random jitter to a duration and caps the result at maxDelay.
func withJitter(delay time.Duration, jitterFraction float64, maxDelay time.Duration) time.Duration {
	if jitterFraction <= 0 || delay <= 0 {
		return delay
	}
	if jitterFraction > 1.0 {
		jitterFraction = 1.0
	}
	// #nosec G404 -- Using math/rand is acceptable for jitter calculation.
	jitter := time.Duration(rand.Float64() * float64(delay) * jitterFraction)
	delay += jitter
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

// Package cache provides the read-through cache used in front of listing
// queries: byte stores (in-process and Redis), a value codec and a typed
// Loader that reports every outcome to a Recorder.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
// Callers use errors.Is(err, cache.ErrMiss) to tell a miss from a store failure.
var ErrMiss = errors.New("cache: miss")

// Store is a byte-oriented key/value store with per-entry TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Recorder receives cache outcomes per namespace.
// *cachemonitor.Monitor satisfies it.
type Recorder interface {
	RecordHit(namespace string)
	RecordMiss(namespace string)
	RecordError(namespace string)
}

// NopRecorder discards all outcomes.
type NopRecorder struct{}

func (NopRecorder) RecordHit(string)   {}
func (NopRecorder) RecordMiss(string)  {}
func (NopRecorder) RecordError(string) {}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadString(t *testing.T) {
	t.Setenv("ESTATE_FALLBACK", "")
	r := LoadString("ESTATE_FALLBACK", "propagate", OneOf("propagate", "empty"))
	assert.Equal(t, Result[string]{Value: "propagate"}, r)

	t.Setenv("ESTATE_FALLBACK", "empty")
	r = LoadString("ESTATE_FALLBACK", "propagate", OneOf("propagate", "empty"))
	assert.Equal(t, "empty", r.Value)
	assert.False(t, r.FallbackApplied)

	t.Setenv("ESTATE_FALLBACK", "stale")
	r = LoadString("ESTATE_FALLBACK", "propagate", OneOf("propagate", "empty"))
	assert.Equal(t, "propagate", r.Value)
	assert.True(t, r.FallbackApplied)
	assert.Contains(t, r.Warning, "ESTATE_FALLBACK")
	assert.Contains(t, r.Warning, "must be one of propagate, empty")
}

func TestLoadInt(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		want         int
		wantFallback bool
	}{
		{"unset", "", 4, false},
		{"valid", "8", 8, false},
		{"padded", " 8 ", 8, false},
		{"not a number", "eight", 4, true},
		{"decimal", "8.5", 4, true},
		{"out of range", "500", 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ESTATE_CONCURRENCY", tt.value)
			r := LoadInt("ESTATE_CONCURRENCY", 4, IntRange(1, 64))
			assert.Equal(t, tt.want, r.Value)
			assert.Equal(t, tt.wantFallback, r.FallbackApplied)
		})
	}
}

func TestLoadDuration(t *testing.T) {
	t.Setenv("ESTATE_TTL", "10m")
	r := LoadDuration("ESTATE_TTL", time.Minute, DurationRange(time.Second, time.Hour))
	assert.Equal(t, 10*time.Minute, r.Value)

	t.Setenv("ESTATE_TTL", "48h")
	r = LoadDuration("ESTATE_TTL", time.Minute, DurationRange(time.Second, time.Hour))
	assert.Equal(t, time.Minute, r.Value)
	assert.True(t, r.FallbackApplied)

	t.Setenv("ESTATE_TTL", "soon")
	r = LoadDuration("ESTATE_TTL", time.Minute, nil)
	assert.True(t, r.FallbackApplied)
}

func TestLoadFloatAndBool(t *testing.T) {
	t.Setenv("ESTATE_RATE", "2.5")
	assert.InDelta(t, 2.5, LoadFloat("ESTATE_RATE", 1, FloatRange(0.1, 100)).Value, 1e-9)

	t.Setenv("ESTATE_ENABLED", "false")
	assert.False(t, LoadBool("ESTATE_ENABLED", true).Value)

	t.Setenv("ESTATE_ENABLED", "nope")
	r := LoadBool("ESTATE_ENABLED", true)
	assert.True(t, r.Value)
	assert.True(t, r.FallbackApplied)
}

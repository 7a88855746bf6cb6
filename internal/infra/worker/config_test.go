package worker

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "*/10 * * * *", cfg.WarmupSchedule)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 10.0, cfg.RatePerSecond)
	assert.Equal(t, 4, cfg.Burst)
	assert.Equal(t, 5*time.Minute, cfg.RunTimeout)
	assert.True(t, cfg.WarmOnStart)
	assert.Equal(t, 9091, cfg.HealthPort)
}

func TestWorkerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WorkerConfig)
		wantErr string
	}{
		{"bad schedule", func(c *WorkerConfig) { c.WarmupSchedule = "every minute" }, "warmup schedule"},
		{"empty schedule", func(c *WorkerConfig) { c.WarmupSchedule = "" }, "warmup schedule"},
		{"bad timezone", func(c *WorkerConfig) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"zero concurrency", func(c *WorkerConfig) { c.Concurrency = 0 }, "concurrency"},
		{"rate too low", func(c *WorkerConfig) { c.RatePerSecond = 0 }, "rate per second"},
		{"burst too high", func(c *WorkerConfig) { c.Burst = 1000 }, "burst"},
		{"timeout too short", func(c *WorkerConfig) { c.RunTimeout = time.Second }, "run timeout"},
		{"privileged port", func(c *WorkerConfig) { c.HealthPort = 80 }, "health port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkerConfig_ValidateReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Concurrency = 0
	cfg.HealthPort = 1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency")
	assert.Contains(t, err.Error(), "health port")
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	m := NewWorkerMetrics(prometheus.NewRegistry())

	cfg := LoadConfigFromEnv(m)

	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), 0.0)
}

func TestLoadConfigFromEnv_ValidValues(t *testing.T) {
	t.Setenv("WARMUP_SCHEDULE", "@hourly")
	t.Setenv("WORKER_TIMEZONE", "America/Los_Angeles")
	t.Setenv("WARMUP_CONCURRENCY", "8")
	t.Setenv("WARMUP_RATE", "2.5")
	t.Setenv("WARMUP_BURST", "2")
	t.Setenv("WARMUP_TIMEOUT", "10m")
	t.Setenv("WARMUP_ON_START", "false")
	t.Setenv("WORKER_HEALTH_PORT", "9191")

	cfg := LoadConfigFromEnv(NewWorkerMetrics(prometheus.NewRegistry()))

	assert.Equal(t, WorkerConfig{
		WarmupSchedule: "@hourly",
		Timezone:       "America/Los_Angeles",
		Concurrency:    8,
		RatePerSecond:  2.5,
		Burst:          2,
		RunTimeout:     10 * time.Minute,
		WarmOnStart:    false,
		HealthPort:     9191,
	}, *cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv_FailOpen(t *testing.T) {
	t.Setenv("WARMUP_SCHEDULE", "not a cron")
	t.Setenv("WARMUP_CONCURRENCY", "999")
	t.Setenv("WARMUP_RATE", "fast")

	m := NewWorkerMetrics(prometheus.NewRegistry())
	cfg := LoadConfigFromEnv(m)

	def := DefaultConfig()
	assert.Equal(t, def.WarmupSchedule, cfg.WarmupSchedule)
	assert.Equal(t, def.Concurrency, cfg.Concurrency)
	assert.Equal(t, def.RatePerSecond, cfg.RatePerSecond)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("warmup_schedule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("concurrency")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive.WithLabelValues("rate_per_second")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FallbackActive.WithLabelValues("timezone")))
}

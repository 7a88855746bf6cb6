package worker

import (
	"errors"
	"fmt"
	"time"

	"estate-hub/internal/pkg/config"
)

// WorkerConfig controls when and how hard the cache warmer runs.
//
// All fields have defaults and are loaded fail-open: a bad value in the
// environment falls back to the default, is logged and is counted in
// worker_config_fallbacks_total.
type WorkerConfig struct {
	// WarmupSchedule is the cron expression for warmup runs.
	// Default: "*/10 * * * *" (every ten minutes)
	WarmupSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	// Default: "UTC"
	Timezone string

	// Concurrency caps how many communities are refreshed at once.
	// Range: 1-32, default 4
	Concurrency int

	// RatePerSecond and Burst pace community refreshes against the database.
	// Defaults: 10/s with bursts of 4
	RatePerSecond float64
	Burst         int

	// RunTimeout bounds a single warmup run.
	// Range: 30s-1h, default 5m
	RunTimeout time.Duration

	// WarmOnStart runs one warmup immediately instead of waiting for the
	// first tick. Default: true
	WarmOnStart bool

	// HealthPort serves /health, /health/ready, /metrics and the cache
	// monitor. Range: 1024-65535, default 9091
	HealthPort int
}

// DefaultConfig returns the default worker configuration.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		WarmupSchedule: "*/10 * * * *",
		Timezone:       "UTC",
		Concurrency:    4,
		RatePerSecond:  10,
		Burst:          4,
		RunTimeout:     5 * time.Minute,
		WarmOnStart:    true,
		HealthPort:     9091,
	}
}

var (
	concurrencyRange = config.IntRange(1, 32)
	rateRange        = config.FloatRange(0.1, 1000)
	burstRange       = config.IntRange(1, 100)
	runTimeoutRange  = config.DurationRange(30*time.Second, time.Hour)
	healthPortRange  = config.IntRange(1024, 65535)
)

// Validate reports every invalid field.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.WarmupSchedule); err != nil {
		errs = append(errs, fmt.Errorf("warmup schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := concurrencyRange(c.Concurrency); err != nil {
		errs = append(errs, fmt.Errorf("concurrency: %w", err))
	}
	if err := rateRange(c.RatePerSecond); err != nil {
		errs = append(errs, fmt.Errorf("rate per second: %w", err))
	}
	if err := burstRange(c.Burst); err != nil {
		errs = append(errs, fmt.Errorf("burst: %w", err))
	}
	if err := runTimeoutRange(c.RunTimeout); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := healthPortRange(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

// LoadConfigFromEnv loads the worker configuration. It never fails: invalid
// values fall back to their defaults and are recorded on metrics.
//
// Environment variables:
//   - WARMUP_SCHEDULE: cron expression
//   - WORKER_TIMEZONE: IANA timezone name
//   - WARMUP_CONCURRENCY: integer 1-32
//   - WARMUP_RATE: refreshes per second, 0.1-1000
//   - WARMUP_BURST: integer 1-100
//   - WARMUP_TIMEOUT: duration 30s-1h
//   - WARMUP_ON_START: boolean
//   - WORKER_HEALTH_PORT: integer 1024-65535
func LoadConfigFromEnv(metrics *WorkerMetrics) *WorkerConfig {
	def := DefaultConfig()
	m := metrics.ConfigMetrics

	cfg := &WorkerConfig{
		WarmupSchedule: config.Observe(m, "warmup_schedule",
			config.LoadString("WARMUP_SCHEDULE", def.WarmupSchedule, config.ValidateCronSchedule)),
		Timezone: config.Observe(m, "timezone",
			config.LoadString("WORKER_TIMEZONE", def.Timezone, config.ValidateTimezone)),
		Concurrency: config.Observe(m, "concurrency",
			config.LoadInt("WARMUP_CONCURRENCY", def.Concurrency, concurrencyRange)),
		RatePerSecond: config.Observe(m, "rate_per_second",
			config.LoadFloat("WARMUP_RATE", def.RatePerSecond, rateRange)),
		Burst: config.Observe(m, "burst",
			config.LoadInt("WARMUP_BURST", def.Burst, burstRange)),
		RunTimeout: config.Observe(m, "run_timeout",
			config.LoadDuration("WARMUP_TIMEOUT", def.RunTimeout, runTimeoutRange)),
		WarmOnStart: config.Observe(m, "warm_on_start",
			config.LoadBool("WARMUP_ON_START", def.WarmOnStart)),
		HealthPort: config.Observe(m, "health_port",
			config.LoadInt("WORKER_HEALTH_PORT", def.HealthPort, healthPortRange)),
	}

	m.RecordLoadTimestamp()
	return cfg
}

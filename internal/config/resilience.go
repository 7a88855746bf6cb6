// Package config assembles process configuration: named retry profiles from a
// YAML file and the API and worker settings from the environment.
package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"estate-hub/internal/resilience/retry"
)

// Profile names used by the application.
const (
	ProfileDB       = "db"
	ProfileCache    = "cache"
	ProfileUpstream = "upstream"
)

// Resilience holds named retry profiles.
type Resilience struct {
	profiles map[string]retry.Config
}

type profileFile struct {
	Profiles map[string]struct {
		MaxRetries *int     `yaml:"max_retries"`
		Timeout    string   `yaml:"timeout"`
		BaseDelay  string   `yaml:"base_delay"`
		MaxDelay   string   `yaml:"max_delay"`
		Jitter     *float64 `yaml:"jitter"`
	} `yaml:"profiles"`
}

// DefaultResilience returns the built-in profiles.
func DefaultResilience() *Resilience {
	return &Resilience{profiles: map[string]retry.Config{
		ProfileDB:       retry.DBConfig(),
		ProfileCache:    retry.CacheStoreConfig(),
		ProfileUpstream: retry.UpstreamConfig(),
	}}
}

// LoadResilience reads profiles from a YAML file:
//
//	profiles:
//	  db:
//	    max_retries: 2
//	    timeout: 3s
//	    base_delay: 100ms
//	    max_delay: 1s
//	    jitter: 0.1
//
// Fields left out keep the built-in value of a known profile, or the retry
// package default for a new one. Every profile is validated.
func LoadResilience(path string) (*Resilience, error) {
	// #nosec G304 -- path comes from the operator's environment, not from requests
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resilience config: %w", err)
	}
	return ParseResilience(data)
}

// ParseResilience parses the YAML document described at LoadResilience.
func ParseResilience(data []byte) (*Resilience, error) {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse resilience config: %w", err)
	}

	r := DefaultResilience()
	for name, p := range file.Profiles {
		cfg, ok := r.profiles[name]
		if !ok {
			cfg = retry.DefaultConfig()
		}
		if p.MaxRetries != nil {
			cfg.MaxRetries = *p.MaxRetries
		}
		if p.Jitter != nil {
			cfg.JitterFraction = *p.Jitter
		}
		for _, f := range []struct {
			field string
			raw   string
			dst   *time.Duration
		}{
			{"timeout", p.Timeout, &cfg.Timeout},
			{"base_delay", p.BaseDelay, &cfg.BaseDelay},
			{"max_delay", p.MaxDelay, &cfg.MaxDelay},
		} {
			if f.raw == "" {
				continue
			}
			d, err := time.ParseDuration(f.raw)
			if err != nil {
				return nil, fmt.Errorf("profile %q: %s: %w", name, f.field, err)
			}
			*f.dst = d
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		r.profiles[name] = cfg
	}
	return r, nil
}

// Profile returns the named profile, or retry.DefaultConfig for unknown names.
func (r *Resilience) Profile(name string) retry.Config {
	if cfg, ok := r.profiles[name]; ok {
		return cfg
	}
	return retry.DefaultConfig()
}

// Names lists the configured profiles.
func (r *Resilience) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for n := range r.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-hub/internal/resilience/retry"
)

func TestDefaultResilience(t *testing.T) {
	r := DefaultResilience()
	assert.Equal(t, retry.DBConfig(), r.Profile(ProfileDB))
	assert.Equal(t, retry.CacheStoreConfig(), r.Profile(ProfileCache))
	assert.Equal(t, retry.DefaultConfig(), r.Profile("unknown"))
	assert.Equal(t, []string{"cache", "db", "upstream"}, r.Names())
}

func TestParseResilience_OverridesAndAdds(t *testing.T) {
	doc := []byte(`
profiles:
  db:
    max_retries: 4
    timeout: 2s
  search:
    max_retries: 0
    timeout: 750ms
    base_delay: 10ms
    max_delay: 20ms
    jitter: 0.2
`)
	r, err := ParseResilience(doc)
	require.NoError(t, err)

	db := r.Profile(ProfileDB)
	assert.Equal(t, 4, db.MaxRetries)
	assert.Equal(t, 2*time.Second, db.Timeout)
	assert.Equal(t, retry.DBConfig().BaseDelay, db.BaseDelay, "unset fields keep the built-in value")

	assert.Equal(t, retry.Config{
		MaxRetries:     0,
		Timeout:        750 * time.Millisecond,
		BaseDelay:      10 * time.Millisecond,
		MaxDelay:       20 * time.Millisecond,
		JitterFraction: 0.2,
	}, r.Profile("search"))
}

func TestParseResilience_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad yaml", "profiles: [", "failed to parse"},
		{"bad duration", "profiles:\n  db:\n    timeout: fast\n", `profile "db": timeout`},
		{"invalid profile", "profiles:\n  db:\n    max_retries: -1\n", "max retries"},
		{"max below base", "profiles:\n  db:\n    base_delay: 2s\n    max_delay: 1s\n", "max delay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResilience([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadResilience_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resilience.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles:\n  cache:\n    max_retries: 0\n"), 0o600))

	r, err := LoadResilience(path)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Profile(ProfileCache).MaxRetries)

	_, err = LoadResilience(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

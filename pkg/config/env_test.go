package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("ESTATE_TEST_STR", "")
	assert.Equal(t, "fallback", GetEnvString("ESTATE_TEST_STR", "fallback"))

	t.Setenv("ESTATE_TEST_STR", "value")
	assert.Equal(t, "value", GetEnvString("ESTATE_TEST_STR", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 7},
		{"42", 42},
		{" 12 ", 12},
		{"-3", -3},
		{"12abc", 7},
		{"many", 7},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ESTATE_TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("ESTATE_TEST_INT", 7))
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("ESTATE_TEST_FLOAT", "0.25")
	assert.InDelta(t, 0.25, GetEnvFloat("ESTATE_TEST_FLOAT", 1), 1e-9)

	t.Setenv("ESTATE_TEST_FLOAT", "quarter")
	assert.InDelta(t, 1.0, GetEnvFloat("ESTATE_TEST_FLOAT", 1), 1e-9)
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"false", true, false},
		{"0", true, false},
		{"yes", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ESTATE_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, GetEnvBool("ESTATE_TEST_BOOL", tt.def))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("ESTATE_TEST_DUR", "1h30m")
	assert.Equal(t, 90*time.Minute, GetEnvDuration("ESTATE_TEST_DUR", time.Second))

	t.Setenv("ESTATE_TEST_DUR", "90")
	assert.Equal(t, time.Second, GetEnvDuration("ESTATE_TEST_DUR", time.Second))
}

func TestGetEnvStringList(t *testing.T) {
	t.Setenv("ESTATE_TEST_LIST", "cache-1:6379, cache-2:6379 ,,")
	assert.Equal(t, []string{"cache-1:6379", "cache-2:6379"}, GetEnvStringList("ESTATE_TEST_LIST", nil))

	t.Setenv("ESTATE_TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, GetEnvStringList("ESTATE_TEST_LIST", []string{"x"}))
}

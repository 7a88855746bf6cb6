package pathutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/listings/featured", "/api/listings/featured"},
		{"/api/listings/harbor-view", "/api/listings/:slug"},
		{"/api/listings/harbor-view/", "/api/listings/:slug"},
		{"/api/listings/harbor-view?ref=home", "/api/listings/:slug"},
		{"/api/communities", "/api/communities"},
		{"/api/communities/bayside/listings", "/api/communities/:community/listings"},
		{"/api/cache/monitor?action=health", "/api/cache/monitor"},
		{"/health", "/health"},
		{"/", "/"},
		{"/unknown/path/123", "/unknown/path/123"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.path))
		})
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"bayside", "harbor-view", "unit-12b", "a"}
	for _, s := range valid {
		assert.NoError(t, ValidateSlug(s), s)
	}

	invalid := []string{"", "Harbor", "harbor--view", "-lead", "trail-", "with space", "../etc", strings.Repeat("a", MaxSlugLength+1)}
	for _, s := range invalid {
		assert.ErrorIs(t, ValidateSlug(s), ErrInvalidSlug, s)
	}
}

// Package listing implements the read use cases of the listing site: the
// featured strip, single listings, community pages and the community index.
//
// Every read goes through a namespaced cache Loader, then retry.Do, then the
// repository. When the repository stays unavailable the configured Policy
// decides whether collection reads fail or degrade to an empty result.
package listing

import (
	"errors"
	"fmt"

	"estate-hub/internal/domain/entity"
)

// Sentinel errors for listing reads.
var (
	// ErrListingNotFound indicates that no listing has the requested slug.
	ErrListingNotFound = fmt.Errorf("listing %w", entity.ErrNotFound)

	// ErrInvalidPolicy is returned by ParsePolicy for unknown names.
	ErrInvalidPolicy = errors.New("invalid fallback policy")
)

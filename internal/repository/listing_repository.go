package repository

import (
	"context"

	"estate-hub/internal/domain/entity"
)

// ListingRepository reads published listings.
type ListingRepository interface {
	// GetBySlug returns nil, nil when no listing has the slug.
	GetBySlug(ctx context.Context, slug string) (*entity.Listing, error)
	// ListFeatured returns active featured listings, Luxe first, newest first.
	ListFeatured(ctx context.Context, limit int) ([]*entity.Listing, error)
	// ListByCommunity returns the listings of one community, most expensive first.
	ListByCommunity(ctx context.Context, community string, limit int) ([]*entity.Listing, error)
	// ListCommunities returns every community with its listing count.
	ListCommunities(ctx context.Context) ([]*entity.Community, error)
}

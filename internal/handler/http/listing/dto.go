// Package listing serves the public listing endpoints of the site API.
package listing

import (
	"context"
	"time"

	"estate-hub/internal/domain/entity"
)

// Reader is the subset of the listing service the handlers need.
type Reader interface {
	Featured(ctx context.Context) ([]*entity.Listing, error)
	BySlug(ctx context.Context, slug string) (*entity.Listing, error)
	ByCommunity(ctx context.Context, community string) ([]*entity.Listing, error)
	Communities(ctx context.Context) ([]*entity.Community, error)
}

// DTO is the API shape of a listing.
type DTO struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Community string    `json:"community"`
	Price     int64     `json:"price"`
	Bedrooms  int       `json:"bedrooms"`
	Bathrooms float64   `json:"bathrooms"`
	Status    string    `json:"status"`
	Featured  bool      `json:"featured"`
	Luxe      bool      `json:"luxe"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDTO(l *entity.Listing) DTO {
	return DTO{
		Slug:      l.Slug,
		Title:     l.Title,
		Community: l.Community,
		Price:     l.Price,
		Bedrooms:  l.Bedrooms,
		Bathrooms: l.Bathrooms,
		Status:    string(l.Status),
		Featured:  l.Featured,
		Luxe:      l.Luxe,
		UpdatedAt: l.UpdatedAt,
	}
}

func toDTOs(ls []*entity.Listing) []DTO {
	out := make([]DTO, 0, len(ls))
	for _, l := range ls {
		out = append(out, toDTO(l))
	}
	return out
}

// CommunityDTO is the API shape of a community.
type CommunityDTO struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	ListingCount int    `json:"listing_count"`
}

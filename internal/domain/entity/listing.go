package entity

import (
	"fmt"
	"time"
)

// ListingStatus is the sales state of a listing.
type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingPending ListingStatus = "pending"
	ListingSold    ListingStatus = "sold"
)

// Valid reports whether s is a known status.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingActive, ListingPending, ListingSold:
		return true
	}
	return false
}

// Listing is a property offered on the site. Luxe listings belong to the
// premium sub-brand and are presented separately.
type Listing struct {
	ID        int64         `json:"id"`
	Slug      string        `json:"slug"`
	Title     string        `json:"title"`
	Community string        `json:"community"`
	Price     int64         `json:"price"` // whole currency units
	Bedrooms  int           `json:"bedrooms"`
	Bathrooms float64       `json:"bathrooms"`
	Status    ListingStatus `json:"status"`
	Featured  bool          `json:"featured"`
	Luxe      bool          `json:"luxe"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Validate checks the invariants every stored listing must satisfy.
func (l *Listing) Validate() error {
	if l.Slug == "" {
		return &ValidationError{Field: "slug", Message: "slug is required"}
	}
	if l.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if l.Community == "" {
		return &ValidationError{Field: "community", Message: "community is required"}
	}
	if l.Price < 0 {
		return &ValidationError{Field: "price", Message: "price cannot be negative"}
	}
	if l.Bedrooms < 0 || l.Bathrooms < 0 {
		return &ValidationError{Field: "rooms", Message: "room counts cannot be negative"}
	}
	if !l.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("invalid status %q", l.Status)}
	}
	return nil
}

// Community is a neighbourhood with at least one listing.
type Community struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ListingCount int    `json:"listing_count"`
}

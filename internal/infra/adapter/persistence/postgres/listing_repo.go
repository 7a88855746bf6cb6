package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"estate-hub/internal/domain/entity"
	"estate-hub/internal/observability/metrics"
	"estate-hub/internal/repository"
)

// Querier is the read side shared by *sql.DB and the circuit-breaker wrapper.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type ListingRepo struct{ db Querier }

func NewListingRepo(db Querier) repository.ListingRepository {
	return &ListingRepo{db: db}
}

const listingColumns = `id, slug, title, community, price, bedrooms, bathrooms, status, featured, luxe, updated_at`

func scanListing(rows *sql.Rows) (*entity.Listing, error) {
	var l entity.Listing
	var status string
	if err := rows.Scan(&l.ID, &l.Slug, &l.Title, &l.Community, &l.Price,
		&l.Bedrooms, &l.Bathrooms, &status, &l.Featured, &l.Luxe, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Status = entity.ListingStatus(status)
	return &l, nil
}

func (repo *ListingRepo) query(ctx context.Context, op, query string, args ...interface{}) ([]*entity.Listing, error) {
	start := time.Now()
	listings, err := repo.collect(ctx, query, args...)
	metrics.RecordDBQuery(op, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return listings, nil
}

func (repo *ListingRepo) collect(ctx context.Context, query string, args ...interface{}) ([]*entity.Listing, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	listings := make([]*entity.Listing, 0, 16)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (repo *ListingRepo) GetBySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	const query = `
SELECT ` + listingColumns + `
FROM listings
WHERE slug = $1
LIMIT 1`
	listings, err := repo.query(ctx, "get_by_slug", query, slug)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, nil
	}
	return listings[0], nil
}

func (repo *ListingRepo) ListFeatured(ctx context.Context, limit int) ([]*entity.Listing, error) {
	const query = `
SELECT ` + listingColumns + `
FROM listings
WHERE featured = TRUE AND status = 'active'
ORDER BY luxe DESC, updated_at DESC
LIMIT $1`
	return repo.query(ctx, "list_featured", query, limit)
}

func (repo *ListingRepo) ListByCommunity(ctx context.Context, community string, limit int) ([]*entity.Listing, error) {
	const query = `
SELECT ` + listingColumns + `
FROM listings
WHERE community = $1 AND status <> 'sold'
ORDER BY price DESC, id
LIMIT $2`
	return repo.query(ctx, "list_by_community", query, community, limit)
}

func (repo *ListingRepo) ListCommunities(ctx context.Context) ([]*entity.Community, error) {
	const query = `
SELECT c.slug, c.name, COUNT(l.id) AS listing_count
FROM communities c
LEFT JOIN listings l ON l.community = c.slug AND l.status <> 'sold'
GROUP BY c.slug, c.name
ORDER BY c.name`
	start := time.Now()
	communities, err := repo.communities(ctx, query)
	metrics.RecordDBQuery("list_communities", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list_communities: %w", err)
	}
	return communities, nil
}

func (repo *ListingRepo) communities(ctx context.Context, query string) ([]*entity.Community, error) {
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	communities := make([]*entity.Community, 0)
	for rows.Next() {
		var c entity.Community
		if err := rows.Scan(&c.Slug, &c.Name, &c.ListingCount); err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		communities = append(communities, &c)
	}
	return communities, rows.Err()
}

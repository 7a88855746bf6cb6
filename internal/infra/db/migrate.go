package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed seeds/listings.sql
var seedListingsSQL string

var schema = []string{
	`CREATE TABLE IF NOT EXISTS communities (
    slug TEXT PRIMARY KEY,
    name TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS listings (
    id         BIGSERIAL PRIMARY KEY,
    slug       TEXT NOT NULL UNIQUE,
    title      TEXT NOT NULL,
    community  TEXT NOT NULL REFERENCES communities(slug),
    price      BIGINT NOT NULL CHECK (price >= 0),
    bedrooms   INTEGER NOT NULL DEFAULT 0,
    bathrooms  NUMERIC(4,1) NOT NULL DEFAULT 0,
    status     VARCHAR(16) NOT NULL DEFAULT 'active',
    featured   BOOLEAN NOT NULL DEFAULT FALSE,
    luxe       BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	// Featured strip: WHERE featured AND status = 'active' ORDER BY luxe, updated_at
	`CREATE INDEX IF NOT EXISTS idx_listings_featured ON listings(luxe DESC, updated_at DESC) WHERE featured = TRUE AND status = 'active'`,
	`CREATE INDEX IF NOT EXISTS idx_listings_community ON listings(community, price DESC)`,
}

// MigrateUp creates the schema and loads the seed data. It is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, seedListingsSQL); err != nil {
		return fmt.Errorf("seed listings: %w", err)
	}
	return nil
}

// MigrateDown drops the schema.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"listings", "communities"} {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("migrate down %s: %w", table, err)
		}
	}
	return nil
}

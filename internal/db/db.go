package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"funnelgate/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping checks database connectivity.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevData inserts sample funnel configuration for development.
// Skips rows that already exist.
func (d *DB) SeedDevData(ctx context.Context) error {
	rules := []struct {
		name      string
		link      string
		countries []string
	}{
		{"worldwide offer", "https://example.com/offer", []string{"worldwide"}},
		{"us-uk offer", "https://example.com/offer-en", []string{"US", "GB"}},
		{"india offer", "https://example.com/offer-in", []string{"India"}},
	}

	for _, r := range rules {
		_, err := d.Pool.Exec(ctx, `
			INSERT INTO destination_rules (name, link, allowed_countries)
			SELECT $1, $2, $3
			WHERE NOT EXISTS (SELECT 1 FROM destination_rules WHERE name = $1)
		`, r.name, r.link, r.countries)
		if err != nil {
			return fmt.Errorf("failed to seed rule %s: %w", r.name, err)
		}
	}

	fallbacks := []struct {
		url   string
		order int
	}{
		{"https://example.com/fallback-1", 1},
		{"https://example.com/fallback-2", 2},
		{"https://example.com/fallback-3", 3},
	}

	for _, f := range fallbacks {
		_, err := d.Pool.Exec(ctx, `
			INSERT INTO fallback_urls (url, sequence_order, allowed_countries)
			SELECT $1, $2, '{worldwide}'::text[]
			WHERE NOT EXISTS (SELECT 1 FROM fallback_urls WHERE url = $1)
		`, f.url, f.order)
		if err != nil {
			return fmt.Errorf("failed to seed fallback %s: %w", f.url, err)
		}
	}

	return nil
}

package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"funnelgate/internal/models"
)

const fallbackURLColumns = `
	id, url, sequence_order, is_active, COALESCE(allowed_countries, '{}'),
	health_status, health_error, last_checked_at, created_at, updated_at
`

func scanFallbackURL(row pgx.Row, f *models.FallbackURL) error {
	return row.Scan(
		&f.ID, &f.URL, &f.SequenceOrder, &f.IsActive, &f.AllowedCountries,
		&f.HealthStatus, &f.HealthError, &f.LastCheckedAt, &f.CreatedAt, &f.UpdatedAt,
	)
}

// ListActiveFallbackURLs returns the active candidate pool in static order.
// The spreadsheet-import-source exclusion is NOT applied here; that is the
// sequencer's responsibility.
func (d *DB) ListActiveFallbackURLs(ctx context.Context) ([]models.FallbackURL, error) {
	query := `SELECT ` + fallbackURLColumns + ` FROM fallback_urls WHERE is_active ORDER BY sequence_order ASC, created_at ASC`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []models.FallbackURL
	for rows.Next() {
		var f models.FallbackURL
		if err := scanFallbackURL(rows, &f); err != nil {
			return nil, err
		}
		urls = append(urls, f)
	}
	return urls, rows.Err()
}

// ListFallbackURLs returns all fallback URLs in static order.
func (d *DB) ListFallbackURLs(ctx context.Context) ([]models.FallbackURL, error) {
	query := `SELECT ` + fallbackURLColumns + ` FROM fallback_urls ORDER BY sequence_order ASC, created_at ASC`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []models.FallbackURL
	for rows.Next() {
		var f models.FallbackURL
		if err := scanFallbackURL(rows, &f); err != nil {
			return nil, err
		}
		urls = append(urls, f)
	}
	return urls, rows.Err()
}

// GetFallbackURLByID retrieves a single fallback URL by ID.
func (d *DB) GetFallbackURLByID(ctx context.Context, id uuid.UUID) (*models.FallbackURL, error) {
	query := `SELECT ` + fallbackURLColumns + ` FROM fallback_urls WHERE id = $1`

	var f models.FallbackURL
	err := scanFallbackURL(d.Pool.QueryRow(ctx, query, id), &f)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFallbackURLNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFallbackURL creates a new fallback pool candidate.
func (d *DB) CreateFallbackURL(ctx context.Context, f *models.FallbackURL) error {
	query := `
		INSERT INTO fallback_urls (url, sequence_order, is_active, allowed_countries)
		VALUES ($1, $2, $3, $4)
		RETURNING id, health_status, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		f.URL, f.SequenceOrder, f.IsActive, f.AllowedCountries,
	).Scan(&f.ID, &f.HealthStatus, &f.CreatedAt, &f.UpdatedAt)
}

// UpdateFallbackURL updates an existing fallback pool candidate.
func (d *DB) UpdateFallbackURL(ctx context.Context, f *models.FallbackURL) error {
	query := `
		UPDATE fallback_urls
		SET url = $1, sequence_order = $2, is_active = $3, allowed_countries = $4,
		    updated_at = NOW()
		WHERE id = $5
	`
	tag, err := d.Pool.Exec(ctx, query,
		f.URL, f.SequenceOrder, f.IsActive, f.AllowedCountries, f.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFallbackURLNotFound
	}
	return nil
}

// DeleteFallbackURL deletes a fallback pool candidate.
func (d *DB) DeleteFallbackURL(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM fallback_urls WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFallbackURLNotFound
	}
	return nil
}

// UpdateFallbackURLHealth records the result of a background health check.
func (d *DB) UpdateFallbackURLHealth(ctx context.Context, id uuid.UUID, status string, healthError *string) error {
	query := `
		UPDATE fallback_urls
		SET health_status = $1, health_error = $2, last_checked_at = NOW()
		WHERE id = $3
	`
	_, err := d.Pool.Exec(ctx, query, status, healthError, id)
	return err
}

// GetFallbackURLsNeedingHealthCheck returns active candidates whose last
// check is older than maxAge (or never ran), limited to batchSize rows.
func (d *DB) GetFallbackURLsNeedingHealthCheck(ctx context.Context, maxAge time.Duration, batchSize int) ([]models.FallbackURL, error) {
	query := `
		SELECT ` + fallbackURLColumns + `
		FROM fallback_urls
		WHERE is_active AND (last_checked_at IS NULL OR last_checked_at < NOW() - make_interval(secs => $1))
		ORDER BY last_checked_at ASC NULLS FIRST
		LIMIT $2
	`

	rows, err := d.Pool.Query(ctx, query, maxAge.Seconds(), batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []models.FallbackURL
	for rows.Next() {
		var f models.FallbackURL
		if err := scanFallbackURL(rows, &f); err != nil {
			return nil, err
		}
		urls = append(urls, f)
	}
	return urls, rows.Err()
}

package db

import (
	"context"

	"funnelgate/internal/models"
)

// RecordSession inserts a session row. Callers fire and forget; a failure
// here must never block navigation.
func (d *DB) RecordSession(ctx context.Context, s *models.Session) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO sessions (country_code, ip, user_agent, referer, surface)
		VALUES ($1, $2, $3, $4, $5)
	`, s.CountryCode, s.IP, s.UserAgent, s.Referer, s.Surface)
	return err
}

// RecordClick inserts a click row.
func (d *DB) RecordClick(ctx context.Context, c *models.Click) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO clicks (destination_rule_id, fallback_url_id, url, country_code, surface)
		VALUES ($1, $2, $3, $4, $5)
	`, c.DestinationRuleID, c.FallbackURLID, c.URL, c.CountryCode, c.Surface)
	return err
}

// RecordEmailCapture inserts an email capture row.
func (d *DB) RecordEmailCapture(ctx context.Context, e *models.EmailCapture) error {
	return d.Pool.QueryRow(ctx, `
		INSERT INTO email_captures (prelanding_id, email, destination)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, e.PrelandingID, e.Email, e.Destination).Scan(&e.ID, &e.CreatedAt)
}

// ListSessions returns recent sessions, newest first.
func (d *DB) ListSessions(ctx context.Context, limit int) ([]models.Session, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, country_code, ip, user_agent, referer, surface, created_at
		FROM sessions ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.CountryCode, &s.IP, &s.UserAgent, &s.Referer, &s.Surface, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ListClicks returns recent clicks, newest first.
func (d *DB) ListClicks(ctx context.Context, limit int) ([]models.Click, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, destination_rule_id, fallback_url_id, url, country_code, surface, created_at
		FROM clicks ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clicks []models.Click
	for rows.Next() {
		var c models.Click
		if err := rows.Scan(&c.ID, &c.DestinationRuleID, &c.FallbackURLID, &c.URL, &c.CountryCode, &c.Surface, &c.CreatedAt); err != nil {
			return nil, err
		}
		clicks = append(clicks, c)
	}
	return clicks, rows.Err()
}

// ListEmailCaptures returns recent email captures, newest first.
func (d *DB) ListEmailCaptures(ctx context.Context, limit int) ([]models.EmailCapture, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, prelanding_id, email, destination, created_at
		FROM email_captures ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var captures []models.EmailCapture
	for rows.Next() {
		var e models.EmailCapture
		if err := rows.Scan(&e.ID, &e.PrelandingID, &e.Email, &e.Destination, &e.CreatedAt); err != nil {
			return nil, err
		}
		captures = append(captures, e)
	}
	return captures, rows.Err()
}

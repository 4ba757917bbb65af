package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"funnelgate/internal/models"
)

const prelandingColumns = `
	id, destination_rule_id, title, body, button_text, is_active, created_at, updated_at
`

func scanPrelanding(row pgx.Row, p *models.Prelanding) error {
	return row.Scan(
		&p.ID, &p.DestinationRuleID, &p.Title, &p.Body, &p.ButtonText,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
}

// GetPrelandingByID retrieves a single prelanding by ID.
func (d *DB) GetPrelandingByID(ctx context.Context, id uuid.UUID) (*models.Prelanding, error) {
	query := `SELECT ` + prelandingColumns + ` FROM prelandings WHERE id = $1`

	var p models.Prelanding
	err := scanPrelanding(d.Pool.QueryRow(ctx, query, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPrelandingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActivePrelandingForRule returns the active prelanding tied to a
// destination rule, or ErrPrelandingNotFound if none is configured.
func (d *DB) GetActivePrelandingForRule(ctx context.Context, ruleID uuid.UUID) (*models.Prelanding, error) {
	query := `
		SELECT ` + prelandingColumns + `
		FROM prelandings
		WHERE destination_rule_id = $1 AND is_active
		ORDER BY created_at DESC
		LIMIT 1
	`

	var p models.Prelanding
	err := scanPrelanding(d.Pool.QueryRow(ctx, query, ruleID), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPrelandingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPrelandings returns all prelandings, newest first.
func (d *DB) ListPrelandings(ctx context.Context) ([]models.Prelanding, error) {
	query := `SELECT ` + prelandingColumns + ` FROM prelandings ORDER BY created_at DESC`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prelandings []models.Prelanding
	for rows.Next() {
		var p models.Prelanding
		if err := scanPrelanding(rows, &p); err != nil {
			return nil, err
		}
		prelandings = append(prelandings, p)
	}
	return prelandings, rows.Err()
}

// CreatePrelanding creates a new prelanding.
func (d *DB) CreatePrelanding(ctx context.Context, p *models.Prelanding) error {
	query := `
		INSERT INTO prelandings (destination_rule_id, title, body, button_text, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		p.DestinationRuleID, p.Title, p.Body, p.ButtonText, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// UpdatePrelanding updates an existing prelanding.
func (d *DB) UpdatePrelanding(ctx context.Context, p *models.Prelanding) error {
	query := `
		UPDATE prelandings
		SET destination_rule_id = $1, title = $2, body = $3, button_text = $4,
		    is_active = $5, updated_at = NOW()
		WHERE id = $6
	`
	tag, err := d.Pool.Exec(ctx, query,
		p.DestinationRuleID, p.Title, p.Body, p.ButtonText, p.IsActive, p.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPrelandingNotFound
	}
	return nil
}

// DeletePrelanding deletes a prelanding and its captures (ON DELETE CASCADE).
func (d *DB) DeletePrelanding(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM prelandings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPrelandingNotFound
	}
	return nil
}

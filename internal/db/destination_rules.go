package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"funnelgate/internal/models"
)

const destinationRuleColumns = `
	id, name, link, COALESCE(allowed_countries, '{}'), fallback_link,
	is_active, created_at, updated_at
`

func scanDestinationRule(row pgx.Row, r *models.DestinationRule) error {
	return row.Scan(
		&r.ID, &r.Name, &r.Link, &r.AllowedCountries, &r.FallbackLink,
		&r.IsActive, &r.CreatedAt, &r.UpdatedAt,
	)
}

// GetDestinationRuleByID retrieves a single destination rule by ID.
func (d *DB) GetDestinationRuleByID(ctx context.Context, id uuid.UUID) (*models.DestinationRule, error) {
	query := `SELECT ` + destinationRuleColumns + ` FROM destination_rules WHERE id = $1`

	var r models.DestinationRule
	err := scanDestinationRule(d.Pool.QueryRow(ctx, query, id), &r)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetActiveDestinationRule retrieves an active rule by ID. Inactive rules
// behave as missing for the visitor-facing flow.
func (d *DB) GetActiveDestinationRule(ctx context.Context, id uuid.UUID) (*models.DestinationRule, error) {
	query := `SELECT ` + destinationRuleColumns + ` FROM destination_rules WHERE id = $1 AND is_active`

	var r models.DestinationRule
	err := scanDestinationRule(d.Pool.QueryRow(ctx, query, id), &r)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListDestinationRules returns all destination rules, newest first.
func (d *DB) ListDestinationRules(ctx context.Context) ([]models.DestinationRule, error) {
	query := `SELECT ` + destinationRuleColumns + ` FROM destination_rules ORDER BY created_at DESC`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.DestinationRule
	for rows.Next() {
		var r models.DestinationRule
		if err := scanDestinationRule(rows, &r); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// CreateDestinationRule creates a new destination rule.
func (d *DB) CreateDestinationRule(ctx context.Context, r *models.DestinationRule) error {
	query := `
		INSERT INTO destination_rules (name, link, allowed_countries, fallback_link, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		r.Name, r.Link, r.AllowedCountries, r.FallbackLink, r.IsActive,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// UpdateDestinationRule updates an existing destination rule.
func (d *DB) UpdateDestinationRule(ctx context.Context, r *models.DestinationRule) error {
	query := `
		UPDATE destination_rules
		SET name = $1, link = $2, allowed_countries = $3, fallback_link = $4,
		    is_active = $5, updated_at = NOW()
		WHERE id = $6
	`
	tag, err := d.Pool.Exec(ctx, query,
		r.Name, r.Link, r.AllowedCountries, r.FallbackLink, r.IsActive, r.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// DeleteDestinationRule deletes a destination rule. Prelandings referencing
// it have their destination_rule_id set to NULL (ON DELETE SET NULL).
func (d *DB) DeleteDestinationRule(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM destination_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

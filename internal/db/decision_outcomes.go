package db

import (
	"context"

	"funnelgate/internal/models"
)

// IncrementDecisionOutcome upserts a decision outcome count by surface.
func (d *DB) IncrementDecisionOutcome(ctx context.Context, surface, outcome string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO decision_outcomes (surface, outcome, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (surface, outcome) DO UPDATE
		SET count = decision_outcomes.count + 1, last_seen_at = NOW()
	`, surface, outcome)
	return err
}

// GetAllDecisionOutcomes returns all decision outcome rows for metrics export.
func (d *DB) GetAllDecisionOutcomes(ctx context.Context) ([]models.DecisionOutcome, error) {
	rows, err := d.Pool.Query(ctx, `SELECT surface, outcome, count, last_seen_at FROM decision_outcomes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []models.DecisionOutcome
	for rows.Next() {
		var o models.DecisionOutcome
		if err := rows.Scan(&o.Surface, &o.Outcome, &o.Count, &o.LastSeenAt); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

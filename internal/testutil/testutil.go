// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"funnelgate/internal/db"
)

// TestDB creates a test database connection and returns a cleanup function.
// Skips the test when TEST_DATABASE_URL is not set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	// Delete in order to respect foreign keys
	pool.Exec(ctx, "DELETE FROM email_captures")
	pool.Exec(ctx, "DELETE FROM clicks")
	pool.Exec(ctx, "DELETE FROM sessions")
	pool.Exec(ctx, "DELETE FROM decision_outcomes")
	pool.Exec(ctx, "DELETE FROM prelandings")
	pool.Exec(ctx, "DELETE FROM blogs")
	pool.Exec(ctx, "DELETE FROM fallback_urls")
	pool.Exec(ctx, "DELETE FROM destination_rules")
	pool.Exec(ctx, "DELETE FROM fallback_sequence_tracker")
}

// CreateTestRule creates a destination rule and returns its ID.
func CreateTestRule(t *testing.T, database *db.DB, name, link string, countries []string, active bool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var id uuid.UUID
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO destination_rules (name, link, allowed_countries, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, name, link, countries, active).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test rule: %v", err)
	}

	return id
}

// CreateTestFallbackURL creates a fallback URL and returns its ID.
func CreateTestFallbackURL(t *testing.T, database *db.DB, url string, order int, countries []string, active bool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var id uuid.UUID
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO fallback_urls (url, sequence_order, allowed_countries, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, url, order, countries, active).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test fallback url: %v", err)
	}

	return id
}

// CreateTestPrelanding creates a prelanding and returns its ID.
func CreateTestPrelanding(t *testing.T, database *db.DB, ruleID *uuid.UUID, title string, active bool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var id uuid.UUID
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO prelandings (destination_rule_id, title, body, button_text, is_active)
		VALUES ($1, $2, 'Test body', 'Continue', $3)
		RETURNING id
	`, ruleID, title, active).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test prelanding: %v", err)
	}

	return id
}

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"funnelgate/internal/models"
)

func TestCreateAndListFallbackURLs(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	urls := []struct {
		url    string
		order  int
		active bool
	}{
		{"https://c.example.com", 3, true},
		{"https://a.example.com", 1, true},
		{"https://b.example.com", 2, false},
	}
	for _, u := range urls {
		f := &models.FallbackURL{
			URL:           u.url,
			SequenceOrder: u.order,
			IsActive:      u.active,
		}
		if err := db.CreateFallbackURL(ctx, f); err != nil {
			t.Fatalf("CreateFallbackURL(%s) error = %v", u.url, err)
		}
		if f.ID == uuid.Nil {
			t.Error("CreateFallbackURL() did not set ID")
		}
	}

	// Active listing excludes inactive rows and orders by sequence
	active, err := db.ListActiveFallbackURLs(ctx)
	if err != nil {
		t.Fatalf("ListActiveFallbackURLs() error = %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("ListActiveFallbackURLs() returned %d rows, want 2", len(active))
	}
	if active[0].URL != "https://a.example.com" || active[1].URL != "https://c.example.com" {
		t.Errorf("active order = [%s, %s], want sequence order", active[0].URL, active[1].URL)
	}

	all, err := db.ListFallbackURLs(ctx)
	if err != nil {
		t.Fatalf("ListFallbackURLs() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListFallbackURLs() returned %d rows, want 3", len(all))
	}
}

func TestUpdateFallbackURLHealth(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	f := &models.FallbackURL{
		URL:      "https://check.example.com",
		IsActive: true,
	}
	if err := db.CreateFallbackURL(ctx, f); err != nil {
		t.Fatalf("CreateFallbackURL() error = %v", err)
	}

	healthErr := "connection refused"
	if err := db.UpdateFallbackURLHealth(ctx, f.ID, models.HealthUnhealthy, &healthErr); err != nil {
		t.Fatalf("UpdateFallbackURLHealth() error = %v", err)
	}

	got, err := db.GetFallbackURLByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetFallbackURLByID() error = %v", err)
	}
	if got.HealthStatus != models.HealthUnhealthy {
		t.Errorf("HealthStatus = %q, want %q", got.HealthStatus, models.HealthUnhealthy)
	}
	if got.HealthError == nil || *got.HealthError != healthErr {
		t.Errorf("HealthError = %v, want %q", got.HealthError, healthErr)
	}
	if got.LastCheckedAt == nil {
		t.Error("LastCheckedAt not set after health update")
	}
}

func TestDeleteFallbackURL(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	f := &models.FallbackURL{URL: "https://gone.example.com", IsActive: true}
	if err := db.CreateFallbackURL(ctx, f); err != nil {
		t.Fatalf("CreateFallbackURL() error = %v", err)
	}

	if err := db.DeleteFallbackURL(ctx, f.ID); err != nil {
		t.Fatalf("DeleteFallbackURL() error = %v", err)
	}
	if _, err := db.GetFallbackURLByID(ctx, f.ID); !errors.Is(err, ErrFallbackURLNotFound) {
		t.Errorf("GetFallbackURLByID(deleted) error = %v, want ErrFallbackURLNotFound", err)
	}
}

func TestSequenceCursor(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Missing singleton row reads as zero
	cursor, err := db.GetSequenceCursor(ctx)
	if err != nil {
		t.Fatalf("GetSequenceCursor() error = %v", err)
	}
	if cursor != 0 {
		t.Errorf("initial cursor = %d, want 0", cursor)
	}

	if err := db.SetSequenceCursor(ctx, 5); err != nil {
		t.Fatalf("SetSequenceCursor() error = %v", err)
	}
	cursor, err = db.GetSequenceCursor(ctx)
	if err != nil {
		t.Fatalf("GetSequenceCursor() error = %v", err)
	}
	if cursor != 5 {
		t.Errorf("cursor = %d, want 5", cursor)
	}

	// Upsert path: a second write updates the singleton row
	if err := db.SetSequenceCursor(ctx, 2); err != nil {
		t.Fatalf("SetSequenceCursor() error = %v", err)
	}
	cursor, _ = db.GetSequenceCursor(ctx)
	if cursor != 2 {
		t.Errorf("cursor = %d, want 2", cursor)
	}

	if err := db.ResetSequenceCursor(ctx); err != nil {
		t.Fatalf("ResetSequenceCursor() error = %v", err)
	}
	cursor, _ = db.GetSequenceCursor(ctx)
	if cursor != 0 {
		t.Errorf("cursor after reset = %d, want 0", cursor)
	}
}

package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"funnelgate/internal/testutil"
)

func TestFallbackRoundRobinFromPersistedCursor(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()

	testutil.CreateTestFallbackURL(t, database, "https://first.example.com", 1, []string{"worldwide"}, true)
	testutil.CreateTestFallbackURL(t, database, "https://second.example.com", 2, []string{"worldwide"}, true)
	testutil.CreateTestFallbackURL(t, database, "https://third.example.com", 3, []string{"worldwide"}, true)

	if err := database.SetSequenceCursor(ctx, 2); err != nil {
		t.Fatalf("SetSequenceCursor() error = %v", err)
	}

	app := newTestApp()
	h := NewFallbackHandler(database, testConfig(), nil)
	app.Get("/fallback", h.Show)

	resp := doGet(t, app, "/fallback", "IN")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "https://third.example.com") {
		t.Errorf("countdown page should carry the third candidate, got:\n%s", body)
	}

	// Cursor 2 over a pool of 3 wraps back to the start for the next visitor
	cursor, err := database.GetSequenceCursor(ctx)
	if err != nil {
		t.Fatalf("GetSequenceCursor() error = %v", err)
	}
	if cursor != 0 {
		t.Errorf("persisted cursor = %d, want 0", cursor)
	}
}

func TestFallbackEmptyPoolIsTerminal(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	app := newTestApp()
	h := NewFallbackHandler(database, testConfig(), nil)
	app.Get("/fallback", h.Show)

	resp := doGet(t, app, "/fallback", "IN")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestFallbackNoCandidateForCountryRedirectsGated(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	testutil.CreateTestFallbackURL(t, database, "https://us-only.example.com", 1, []string{"US"}, true)

	app := newTestApp()
	h := NewFallbackHandler(database, testConfig(), nil)
	app.Get("/fallback", h.Show)

	resp := doGet(t, app, "/fallback", "IN")
	assertRedirect(t, resp, "/gated")
}

func TestFallbackSkipsImportSourceRows(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	testutil.CreateTestFallbackURL(t, database, "https://docs.google.com/spreadsheets/d/abc", 1, []string{"worldwide"}, true)
	testutil.CreateTestFallbackURL(t, database, "https://real.example.com", 2, []string{"worldwide"}, true)

	app := newTestApp()
	h := NewFallbackHandler(database, testConfig(), nil)
	app.Get("/fallback", h.Show)

	// Two passes: the import-source row must never be served
	for i := 0; i < 2; i++ {
		resp := doGet(t, app, "/fallback", "IN")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if strings.Contains(string(body), "docs.google.com") {
			t.Fatal("countdown page served an import-source row")
		}
		if !strings.Contains(string(body), "https://real.example.com") {
			t.Errorf("countdown page missing the eligible candidate:\n%s", body)
		}
	}
}

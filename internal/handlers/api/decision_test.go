package api

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"

	"funnelgate/internal/config"
	"funnelgate/internal/models"
	"funnelgate/internal/testutil"
)

func decisionApp(t *testing.T) (*fiber.App, func()) {
	t.Helper()
	database, cleanup := testutil.TestDB(t)

	cfg := &config.Config{TrustedCountryHeader: "CF-IPCountry"}
	h := NewDecisionHandler(database, cfg, nil)

	app := fiber.New()
	app.Get("/api/decision", h.Decide)

	return app, cleanup
}

func decide(t *testing.T, app *fiber.App, path, country string) (*http.Response, []byte) {
	t.Helper()
	req, _ := http.NewRequest("GET", path, nil)
	if country != "" {
		req.Header.Set("CF-IPCountry", country)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func TestDecideRule(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ruleID := testutil.CreateTestRule(t, database, "US Offer", "https://us.example.com", []string{"US"}, true)

	cfg := &config.Config{TrustedCountryHeader: "CF-IPCountry"}
	h := NewDecisionHandler(database, cfg, nil)
	app := fiber.New()
	app.Get("/api/decision", h.Decide)

	// Allowed visitor
	resp, body := decide(t, app, "/api/decision?rule="+ruleID.String(), "US")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	var allowed models.RuleDecisionResponse
	if err := json.Unmarshal(body, &allowed); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if !allowed.Allowed || allowed.Country != "US" || allowed.Destination != "https://us.example.com" {
		t.Errorf("response = %+v, want allowed US decision", allowed)
	}

	// Denied visitor still receives the decision payload
	_, body = decide(t, app, "/api/decision?rule="+ruleID.String(), "IN")
	var denied models.RuleDecisionResponse
	if err := json.Unmarshal(body, &denied); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if denied.Allowed {
		t.Error("IN visitor should be denied for a US-only rule")
	}
}

func TestDecideRuleInvalidAndMissing(t *testing.T) {
	app, cleanup := decisionApp(t)
	defer cleanup()

	resp, _ := decide(t, app, "/api/decision?rule=not-a-uuid", "US")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid rule id: status = %d, want 400", resp.StatusCode)
	}

	resp, _ = decide(t, app, "/api/decision?rule=0e8ff503-3b93-4a3c-b8be-8485a3cf7c79", "US")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing rule: status = %d, want 404", resp.StatusCode)
	}
}

func TestDecidePoolAdvancesCursor(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	testutil.CreateTestFallbackURL(t, database, "https://a.example.com", 1, []string{"worldwide"}, true)
	testutil.CreateTestFallbackURL(t, database, "https://b.example.com", 2, []string{"worldwide"}, true)

	cfg := &config.Config{TrustedCountryHeader: "CF-IPCountry"}
	h := NewDecisionHandler(database, cfg, nil)
	app := fiber.New()
	app.Get("/api/decision", h.Decide)

	var destinations []string
	for i := 0; i < 2; i++ {
		resp, body := decide(t, app, "/api/decision", "IN")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
		}
		var dec models.PoolDecisionResponse
		if err := json.Unmarshal(body, &dec); err != nil {
			t.Fatalf("bad JSON: %v", err)
		}
		destinations = append(destinations, dec.Destination)
	}

	if destinations[0] == destinations[1] {
		t.Errorf("two consecutive pool decisions returned the same destination %q", destinations[0])
	}
}

func TestDecidePoolEmpty(t *testing.T) {
	app, cleanup := decisionApp(t)
	defer cleanup()

	resp, _ := decide(t, app, "/api/decision", "IN")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("empty pool: status = %d, want 404", resp.StatusCode)
	}
}

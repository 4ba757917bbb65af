package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"funnelgate/internal/config"
	"funnelgate/internal/db"
	"funnelgate/internal/geo"
	"funnelgate/internal/handlers"
	"funnelgate/internal/metrics"
	"funnelgate/internal/models"
	"funnelgate/internal/redirect"
)

// DecisionHandler exposes the server-side country-decision endpoint: the
// same gate and sequencer the page flows use, as JSON.
type DecisionHandler struct {
	db       *db.DB
	cfg      *config.Config
	resolver *geo.Resolver
}

// NewDecisionHandler creates a new decision handler.
func NewDecisionHandler(database *db.DB, cfg *config.Config, resolver *geo.Resolver) *DecisionHandler {
	return &DecisionHandler{db: database, cfg: cfg, resolver: resolver}
}

// Decide handles GET /api/decision[?rule=<uuid>].
//
// With a rule id it returns {allowed, country, destination} for that rule.
// Without one it runs the fallback pool and returns {country, destination,
// index}, advancing the shared cursor exactly like the fallback page.
func (h *DecisionHandler) Decide(c fiber.Ctx) error {
	country := handlers.ResolveCountry(c, h.cfg, h.resolver)

	ruleParam := c.Query("rule")
	if ruleParam != "" {
		return h.decideRule(c, ruleParam, country)
	}
	return h.decidePool(c, country)
}

func (h *DecisionHandler) decideRule(c fiber.Ctx, ruleParam, country string) error {
	ruleID, err := uuid.Parse(ruleParam)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid rule id")
	}

	rule, err := h.db.GetActiveDestinationRule(c.Context(), ruleID)
	if err != nil {
		if errors.Is(err, db.ErrRuleNotFound) {
			return jsonError(c, fiber.StatusNotFound, "rule not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch rule")
	}

	allowed := redirect.Allowed(rule.AllowedCountries, country)
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	metrics.RecordDecision(models.SurfaceDecisionAPI, outcome)

	return c.JSON(models.RuleDecisionResponse{
		Allowed:     allowed,
		Country:     country,
		Destination: rule.Link,
	})
}

func (h *DecisionHandler) decidePool(c fiber.Ctx, country string) error {
	pool, err := h.db.ListActiveFallbackURLs(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch fallback pool")
	}

	candidates := make([]redirect.Candidate, 0, len(pool))
	for _, f := range pool {
		candidates = append(candidates, redirect.Candidate{
			ID:               f.ID,
			URL:              f.URL,
			AllowedCountries: f.AllowedCountries,
		})
	}

	cursor, err := h.db.GetSequenceCursor(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read sequence cursor")
	}

	selection, err := redirect.Select(candidates, country, cursor)
	if err != nil {
		if errors.Is(err, redirect.ErrNoActiveCandidates) {
			log.Println("fallback pool is empty: no active candidates configured")
			metrics.RecordDecision(models.SurfaceDecisionAPI, "no_pool")
			return jsonError(c, fiber.StatusNotFound, "no fallback candidates configured")
		}
		if errors.Is(err, redirect.ErrNoCandidateForCountry) {
			metrics.RecordDecision(models.SurfaceDecisionAPI, "no_candidate")
			return jsonError(c, fiber.StatusNotFound, "no fallback candidate for country")
		}
		return jsonError(c, fiber.StatusInternalServerError, "selection failed")
	}

	if err := h.db.SetSequenceCursor(c.Context(), selection.NextCursor); err != nil {
		log.Printf("failed to persist sequence cursor: %v", err)
	}

	metrics.RecordDecision(models.SurfaceDecisionAPI, "served")
	return c.JSON(models.PoolDecisionResponse{
		Country:     country,
		Destination: selection.Candidate.URL,
		Index:       selection.Index,
	})
}

package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"funnelgate/internal/config"
	"funnelgate/internal/db"
	"funnelgate/internal/geo"
	"funnelgate/internal/metrics"
	"funnelgate/internal/models"
	"funnelgate/internal/redirect"
)

// FallbackHandler drives the generic fallback flow: round-robin selection
// over the country-filtered candidate pool, shown behind a visible countdown.
type FallbackHandler struct {
	db       *db.DB
	cfg      *config.Config
	resolver *geo.Resolver
}

// NewFallbackHandler creates a new fallback handler.
func NewFallbackHandler(database *db.DB, cfg *config.Config, resolver *geo.Resolver) *FallbackHandler {
	return &FallbackHandler{db: database, cfg: cfg, resolver: resolver}
}

// Show handles GET /fallback: selects the next candidate and renders the
// countdown page. The "continue" link on the page navigates immediately.
func (h *FallbackHandler) Show(c fiber.Ctx) error {
	country := ResolveCountry(c, h.cfg, h.resolver)
	recordSession(c, h.db, country, models.SurfaceFallback)

	selection, err := h.selectNext(c.Context(), country)
	if err != nil {
		if errors.Is(err, redirect.ErrNoActiveCandidates) {
			// Configuration error: the pool is empty. Surface an explicit
			// terminal page rather than looping or crashing.
			log.Println("fallback pool is empty: no active candidates configured")
			metrics.RecordDecision(models.SurfaceFallback, "no_pool")
			return c.Status(fiber.StatusNotFound).Render("error", MergeBranding(fiber.Map{
				"Title":   "No offers available",
				"Message": "There are no offers configured right now. Please check back later.",
			}, h.cfg))
		}
		if errors.Is(err, redirect.ErrNoCandidateForCountry) {
			metrics.RecordDecision(models.SurfaceFallback, "no_candidate")
			return c.Redirect().To("/gated")
		}
		return err
	}

	metrics.RecordDecision(models.SurfaceFallback, "served")
	h.recordClick(selection, country)

	return c.Render("fallback", MergeBranding(fiber.Map{
		"Title":        "Redirecting",
		"URL":          selection.Candidate.URL,
		"DelaySeconds": h.cfg.RedirectDelaySeconds,
	}, h.cfg))
}

// selectNext loads the pool and cursor, runs the sequencer, and persists the
// advanced cursor. The read-then-write is deliberately not atomic (last
// write wins); filtering happens fresh on every call so a stale cursor can
// never yield an ineligible candidate.
func (h *FallbackHandler) selectNext(ctx context.Context, country string) (redirect.Selection, error) {
	pool, err := h.db.ListActiveFallbackURLs(ctx)
	if err != nil {
		return redirect.Selection{}, err
	}

	candidates := make([]redirect.Candidate, 0, len(pool))
	for _, f := range pool {
		candidates = append(candidates, redirect.Candidate{
			ID:               f.ID,
			URL:              f.URL,
			AllowedCountries: f.AllowedCountries,
		})
	}

	cursor, err := h.db.GetSequenceCursor(ctx)
	if err != nil {
		return redirect.Selection{}, err
	}

	selection, err := redirect.Select(candidates, country, cursor)
	if err != nil {
		return redirect.Selection{}, err
	}

	if err := h.db.SetSequenceCursor(ctx, selection.NextCursor); err != nil {
		// The selection already happened; a failed cursor write only skews
		// rotation, it must not fail the visitor.
		log.Printf("failed to persist sequence cursor: %v", err)
	}

	return selection, nil
}

func (h *FallbackHandler) recordClick(selection redirect.Selection, country string) {
	id := selection.Candidate.ID
	click := &models.Click{
		FallbackURLID: &id,
		URL:           selection.Candidate.URL,
		CountryCode:   country,
		Surface:       models.SurfaceFallback,
	}
	go h.db.RecordClick(context.Background(), click)
}

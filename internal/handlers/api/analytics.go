package api

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"funnelgate/internal/db"
)

// AnalyticsHandler exposes read-only click/session analytics to the admin UI.
type AnalyticsHandler struct {
	db *db.DB
}

// NewAnalyticsHandler creates a new API analytics handler.
func NewAnalyticsHandler(database *db.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: database}
}

// queryLimit parses the ?limit= parameter with a default and a cap.
func queryLimit(c fiber.Ctx) int {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 1000 {
		limit = 1000
	}
	return limit
}

// Sessions returns recent visitor sessions.
func (h *AnalyticsHandler) Sessions(c fiber.Ctx) error {
	sessions, err := h.db.ListSessions(c.Context(), queryLimit(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch sessions")
	}
	return jsonSuccess(c, sessions)
}

// Clicks returns recent navigation decisions.
func (h *AnalyticsHandler) Clicks(c fiber.Ctx) error {
	clicks, err := h.db.ListClicks(c.Context(), queryLimit(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch clicks")
	}
	return jsonSuccess(c, clicks)
}

// EmailCaptures returns recent prelanding submissions.
func (h *AnalyticsHandler) EmailCaptures(c fiber.Ctx) error {
	captures, err := h.db.ListEmailCaptures(c.Context(), queryLimit(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch email captures")
	}
	return jsonSuccess(c, captures)
}

// Outcomes returns the aggregate decision counters (same data Prometheus
// scrapes, for the admin dashboard).
func (h *AnalyticsHandler) Outcomes(c fiber.Ctx) error {
	outcomes, err := h.db.GetAllDecisionOutcomes(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch decision outcomes")
	}
	return jsonSuccess(c, outcomes)
}

package handlers

import (
	"context"
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"funnelgate/internal/config"
	"funnelgate/internal/db"
	"funnelgate/internal/geo"
	"funnelgate/internal/metrics"
	"funnelgate/internal/models"
	"funnelgate/internal/redirect"
)

// RedirectHandler drives the direct-destination flow: resolve the visitor's
// country, gate it against the rule's allow-list, and navigate.
type RedirectHandler struct {
	db       *db.DB
	cfg      *config.Config
	resolver *geo.Resolver
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(database *db.DB, cfg *config.Config, resolver *geo.Resolver) *RedirectHandler {
	return &RedirectHandler{db: database, cfg: cfg, resolver: resolver}
}

// Destination handles GET /r/:id.
//
// Denied visitors are routed to the gated page carrying the rule id. Allowed
// visitors go through the rule's active prelanding when one exists, otherwise
// straight to the rule's link. Any rule lookup failure behaves as not found;
// the visitor always lands on some page.
func (h *RedirectHandler) Destination(c fiber.Ctx) error {
	ruleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.notFound(c)
	}

	rule, err := h.db.GetActiveDestinationRule(c.Context(), ruleID)
	if err != nil {
		if !errors.Is(err, db.ErrRuleNotFound) {
			// Store failures behave as "rule not found"; the visitor
			// always lands on a page
			metrics.RecordDecision(models.SurfaceDestination, "store_error")
		}
		return h.notFound(c)
	}

	country := ResolveCountry(c, h.cfg, h.resolver)
	recordSession(c, h.db, country, models.SurfaceDestination)

	if !redirect.Allowed(rule.AllowedCountries, country) {
		metrics.RecordDecision(models.SurfaceDestination, "denied")
		return c.Redirect().To("/gated/" + rule.ID.String())
	}

	// Interpose the prelanding when one is configured and active
	prelanding, err := h.db.GetActivePrelandingForRule(c.Context(), rule.ID)
	if err == nil && prelanding != nil {
		metrics.RecordDecision(models.SurfaceDestination, "prelanding")
		query := url.Values{"dest": {rule.Link}, "rule": {rule.ID.String()}}
		return c.Redirect().To("/pre/" + prelanding.ID.String() + "?" + query.Encode())
	}

	metrics.RecordDecision(models.SurfaceDestination, "allowed")
	h.recordClick(rule, country)
	return c.Redirect().To(rule.Link)
}

// Gated handles GET /gated/:id?, the "unavailable in your region" terminal
// page. The rule id is carried for analytics and support but is optional.
func (h *RedirectHandler) Gated(c fiber.Ctx) error {
	return c.Render("gated", MergeBranding(fiber.Map{
		"Title":  "Not available in your region",
		"RuleID": c.Params("id"),
	}, h.cfg))
}

func (h *RedirectHandler) recordClick(rule *models.DestinationRule, country string) {
	click := &models.Click{
		DestinationRuleID: &rule.ID,
		URL:               rule.Link,
		CountryCode:       country,
		Surface:           models.SurfaceDestination,
	}
	go h.db.RecordClick(context.Background(), click)
}

func (h *RedirectHandler) notFound(c fiber.Ctx) error {
	metrics.RecordDecision(models.SurfaceDestination, "not_found")
	return c.Status(fiber.StatusNotFound).Render("error", MergeBranding(fiber.Map{
		"Title":   "Not Found",
		"Message": "This offer does not exist or is no longer available.",
	}, h.cfg))
}

package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"funnelgate/internal/config"
	"funnelgate/internal/db"
	"funnelgate/internal/metrics"
	"funnelgate/internal/models"
	"funnelgate/internal/validation"
)

// PrelandingHandler renders the email-capture interstitial and processes
// submissions. The final destination is carried through the form.
type PrelandingHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewPrelandingHandler creates a new prelanding handler.
func NewPrelandingHandler(database *db.DB, cfg *config.Config) *PrelandingHandler {
	return &PrelandingHandler{db: database, cfg: cfg}
}

// Show handles GET /pre/:id.
func (h *PrelandingHandler) Show(c fiber.Ctx) error {
	prelanding, err := h.loadActive(c)
	if err != nil {
		return h.notFound(c)
	}

	return c.Render("prelanding", MergeBranding(fiber.Map{
		"Title":      prelanding.Title,
		"Prelanding": prelanding,
		"Dest":       c.Query("dest"),
	}, h.cfg))
}

// Submit handles POST /pre/:id: persists the capture, fires the admin
// notification, and navigates to the carried destination.
func (h *PrelandingHandler) Submit(c fiber.Ctx) error {
	prelanding, err := h.loadActive(c)
	if err != nil {
		return h.notFound(c)
	}

	address := c.FormValue("email")
	dest := c.FormValue("dest")
	if dest == "" {
		dest = c.Query("dest")
	}

	if !validation.ValidateEmail(address) {
		return c.Status(fiber.StatusBadRequest).Render("prelanding", MergeBranding(fiber.Map{
			"Title":      prelanding.Title,
			"Prelanding": prelanding,
			"Dest":       dest,
			"Error":      "Please enter a valid email address.",
		}, h.cfg))
	}

	capture := &models.EmailCapture{
		PrelandingID: prelanding.ID,
		Email:        address,
		Destination:  dest,
	}
	if err := h.db.RecordEmailCapture(c.Context(), capture); err != nil {
		// The capture is best-effort; the visitor still reaches the offer
		metrics.RecordDecision(models.SurfacePrelanding, "capture_failed")
	} else {
		metrics.RecordDecision(models.SurfacePrelanding, "captured")
		if Notifier != nil {
			Notifier.NotifyEmailCaptured(capture, prelanding)
		}
	}

	if dest == "" {
		// No destination carried; terminal thank-you state
		return c.Render("prelanding", MergeBranding(fiber.Map{
			"Title":      prelanding.Title,
			"Prelanding": prelanding,
			"Submitted":  true,
		}, h.cfg))
	}

	h.recordClick(prelanding, dest, c)
	return c.Redirect().To(dest)
}

func (h *PrelandingHandler) loadActive(c fiber.Ctx) (*models.Prelanding, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, err
	}
	prelanding, err := h.db.GetPrelandingByID(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if !prelanding.IsActive {
		return nil, db.ErrPrelandingNotFound
	}
	return prelanding, nil
}

func (h *PrelandingHandler) recordClick(prelanding *models.Prelanding, dest string, c fiber.Ctx) {
	click := &models.Click{
		DestinationRuleID: prelanding.DestinationRuleID,
		URL:               dest,
		CountryCode:       c.Get(h.cfg.TrustedCountryHeader),
		Surface:           models.SurfacePrelanding,
	}
	if click.CountryCode == "" {
		click.CountryCode = "XX"
	}
	go h.db.RecordClick(context.Background(), click)
}

func (h *PrelandingHandler) notFound(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("error", MergeBranding(fiber.Map{
		"Title":   "Not Found",
		"Message": "This page does not exist.",
	}, h.cfg))
}

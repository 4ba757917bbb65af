package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"funnelgate/internal/db"
	"funnelgate/internal/models"
	"funnelgate/internal/redirect"
	"funnelgate/internal/validation"
)

// FallbackURLHandler handles fallback pool CRUD via JSON API.
type FallbackURLHandler struct {
	db *db.DB
}

// NewFallbackURLHandler creates a new API fallback URL handler.
func NewFallbackURLHandler(database *db.DB) *FallbackURLHandler {
	return &FallbackURLHandler{db: database}
}

type fallbackURLBody struct {
	URL              string   `json:"url"`
	SequenceOrder    int      `json:"sequence_order"`
	AllowedCountries []string `json:"allowed_countries"`
	IsActive         *bool    `json:"is_active"`
}

func (b *fallbackURLBody) validate() (bool, string) {
	if valid, msg := validation.ValidateURL(b.URL); !valid {
		return false, msg
	}
	// The sequencer would silently skip these; reject them up front so the
	// admin learns about the exclusion immediately.
	if redirect.IsExcludedSource(b.URL) {
		return false, "URL points at the spreadsheet import source and cannot be a redirect candidate"
	}
	if valid, token := validation.ValidateCountryTokens(b.AllowedCountries); !valid {
		return false, "invalid country token: " + token
	}
	return true, ""
}

// List returns the full fallback pool.
func (h *FallbackURLHandler) List(c fiber.Ctx) error {
	urls, err := h.db.ListFallbackURLs(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch fallback urls")
	}
	return jsonSuccess(c, urls)
}

// Get returns a single fallback URL by ID.
func (h *FallbackURLHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid fallback url id")
	}

	f, err := h.db.GetFallbackURLByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrFallbackURLNotFound) {
			return jsonError(c, fiber.StatusNotFound, "fallback url not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch fallback url")
	}
	return jsonSuccess(c, f)
}

// Create creates a new fallback pool candidate.
func (h *FallbackURLHandler) Create(c fiber.Ctx) error {
	var body fallbackURLBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	f := &models.FallbackURL{
		URL:              body.URL,
		SequenceOrder:    body.SequenceOrder,
		AllowedCountries: body.AllowedCountries,
		IsActive:         body.IsActive == nil || *body.IsActive,
	}
	if err := h.db.CreateFallbackURL(c.Context(), f); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create fallback url")
	}
	return jsonSuccess(c, f)
}

// Update updates an existing fallback pool candidate.
func (h *FallbackURLHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid fallback url id")
	}

	var body fallbackURLBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	f := &models.FallbackURL{
		ID:               id,
		URL:              body.URL,
		SequenceOrder:    body.SequenceOrder,
		AllowedCountries: body.AllowedCountries,
		IsActive:         body.IsActive == nil || *body.IsActive,
	}
	if err := h.db.UpdateFallbackURL(c.Context(), f); err != nil {
		if errors.Is(err, db.ErrFallbackURLNotFound) {
			return jsonError(c, fiber.StatusNotFound, "fallback url not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update fallback url")
	}
	return jsonSuccess(c, f)
}

// Delete deletes a fallback pool candidate.
func (h *FallbackURLHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid fallback url id")
	}

	if err := h.db.DeleteFallbackURL(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrFallbackURLNotFound) {
			return jsonError(c, fiber.StatusNotFound, "fallback url not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete fallback url")
	}
	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// GetCursor returns the current sequence cursor.
func (h *FallbackURLHandler) GetCursor(c fiber.Ctx) error {
	cursor, err := h.db.GetSequenceCursor(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read sequence cursor")
	}
	return jsonSuccess(c, fiber.Map{"current_index": cursor})
}

// ResetCursor sets the sequence cursor back to zero.
func (h *FallbackURLHandler) ResetCursor(c fiber.Ctx) error {
	if err := h.db.ResetSequenceCursor(c.Context()); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to reset sequence cursor")
	}
	return jsonSuccess(c, fiber.Map{"current_index": 0})
}

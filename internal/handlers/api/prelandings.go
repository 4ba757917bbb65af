package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"funnelgate/internal/db"
	"funnelgate/internal/models"
)

// PrelandingHandler handles prelanding CRUD via JSON API.
type PrelandingHandler struct {
	db *db.DB
}

// NewPrelandingHandler creates a new API prelanding handler.
func NewPrelandingHandler(database *db.DB) *PrelandingHandler {
	return &PrelandingHandler{db: database}
}

type prelandingBody struct {
	DestinationRuleID *uuid.UUID `json:"destination_rule_id"`
	Title             string     `json:"title"`
	Body              string     `json:"body"`
	ButtonText        string     `json:"button_text"`
	IsActive          *bool      `json:"is_active"`
}

// List returns all prelandings.
func (h *PrelandingHandler) List(c fiber.Ctx) error {
	prelandings, err := h.db.ListPrelandings(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch prelandings")
	}
	return jsonSuccess(c, prelandings)
}

// Create creates a new prelanding.
func (h *PrelandingHandler) Create(c fiber.Ctx) error {
	var body prelandingBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Title == "" {
		return jsonError(c, fiber.StatusBadRequest, "title is required")
	}
	if body.ButtonText == "" {
		body.ButtonText = "Continue"
	}

	p := &models.Prelanding{
		DestinationRuleID: body.DestinationRuleID,
		Title:             body.Title,
		Body:              body.Body,
		ButtonText:        body.ButtonText,
		IsActive:          body.IsActive == nil || *body.IsActive,
	}
	if err := h.db.CreatePrelanding(c.Context(), p); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create prelanding")
	}
	return jsonSuccess(c, p)
}

// Update updates an existing prelanding.
func (h *PrelandingHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid prelanding id")
	}

	var body prelandingBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Title == "" {
		return jsonError(c, fiber.StatusBadRequest, "title is required")
	}
	if body.ButtonText == "" {
		body.ButtonText = "Continue"
	}

	p := &models.Prelanding{
		ID:                id,
		DestinationRuleID: body.DestinationRuleID,
		Title:             body.Title,
		Body:              body.Body,
		ButtonText:        body.ButtonText,
		IsActive:          body.IsActive == nil || *body.IsActive,
	}
	if err := h.db.UpdatePrelanding(c.Context(), p); err != nil {
		if errors.Is(err, db.ErrPrelandingNotFound) {
			return jsonError(c, fiber.StatusNotFound, "prelanding not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update prelanding")
	}
	return jsonSuccess(c, p)
}

// Delete deletes a prelanding and its captured emails.
func (h *PrelandingHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid prelanding id")
	}

	if err := h.db.DeletePrelanding(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrPrelandingNotFound) {
			return jsonError(c, fiber.StatusNotFound, "prelanding not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete prelanding")
	}
	return jsonSuccess(c, fiber.Map{"deleted": id})
}

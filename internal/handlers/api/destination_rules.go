package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"funnelgate/internal/db"
	"funnelgate/internal/models"
	"funnelgate/internal/validation"
)

// RuleHandler handles destination rule CRUD via JSON API.
type RuleHandler struct {
	db *db.DB
}

// NewRuleHandler creates a new API rule handler.
func NewRuleHandler(database *db.DB) *RuleHandler {
	return &RuleHandler{db: database}
}

type ruleBody struct {
	Name             string   `json:"name"`
	Link             string   `json:"link"`
	AllowedCountries []string `json:"allowed_countries"`
	FallbackLink     *string  `json:"fallback_link"`
	IsActive         *bool    `json:"is_active"`
}

func (b *ruleBody) validate() (bool, string) {
	if b.Name == "" || b.Link == "" {
		return false, "name and link are required"
	}
	if valid, msg := validation.ValidateURL(b.Link); !valid {
		return false, msg
	}
	if b.FallbackLink != nil && *b.FallbackLink != "" {
		if valid, msg := validation.ValidateURL(*b.FallbackLink); !valid {
			return false, msg
		}
	}
	if valid, token := validation.ValidateCountryTokens(b.AllowedCountries); !valid {
		return false, "invalid country token: " + token
	}
	return true, ""
}

// List returns all destination rules.
func (h *RuleHandler) List(c fiber.Ctx) error {
	rules, err := h.db.ListDestinationRules(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch rules")
	}
	return jsonSuccess(c, rules)
}

// Get returns a single destination rule by ID.
func (h *RuleHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid rule id")
	}

	rule, err := h.db.GetDestinationRuleByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrRuleNotFound) {
			return jsonError(c, fiber.StatusNotFound, "rule not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch rule")
	}
	return jsonSuccess(c, rule)
}

// Create creates a new destination rule.
func (h *RuleHandler) Create(c fiber.Ctx) error {
	var body ruleBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	rule := &models.DestinationRule{
		Name:             body.Name,
		Link:             body.Link,
		AllowedCountries: body.AllowedCountries,
		FallbackLink:     body.FallbackLink,
		IsActive:         body.IsActive == nil || *body.IsActive,
	}
	if err := h.db.CreateDestinationRule(c.Context(), rule); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create rule")
	}
	return jsonSuccess(c, rule)
}

// Update updates an existing destination rule.
func (h *RuleHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid rule id")
	}

	var body ruleBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	rule := &models.DestinationRule{
		ID:               id,
		Name:             body.Name,
		Link:             body.Link,
		AllowedCountries: body.AllowedCountries,
		FallbackLink:     body.FallbackLink,
		IsActive:         body.IsActive == nil || *body.IsActive,
	}
	if err := h.db.UpdateDestinationRule(c.Context(), rule); err != nil {
		if errors.Is(err, db.ErrRuleNotFound) {
			return jsonError(c, fiber.StatusNotFound, "rule not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update rule")
	}
	return jsonSuccess(c, rule)
}

// Delete deletes a destination rule.
func (h *RuleHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid rule id")
	}

	if err := h.db.DeleteDestinationRule(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrRuleNotFound) {
			return jsonError(c, fiber.StatusNotFound, "rule not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete rule")
	}
	return jsonSuccess(c, fiber.Map{"deleted": id})
}

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

// BlogHandler handles blog CRUD via JSON API.
type BlogHandler struct {
	db *db.DB
}

// NewBlogHandler creates a new API blog handler.
func NewBlogHandler(database *db.DB) *BlogHandler {
	return &BlogHandler{db: database}
}

type blogBody struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsPublished *bool  `json:"is_published"`
}

func (b *blogBody) validate() (bool, string) {
	if b.Slug == "" || b.Title == "" {
		return false, "slug and title are required"
	}
	if !validation.ValidateSlug(b.Slug) {
		return false, "slug must contain only lowercase letters, numbers, and hyphens"
	}
	return true, ""
}

// List returns all blogs.
func (h *BlogHandler) List(c fiber.Ctx) error {
	blogs, err := h.db.ListBlogs(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch blogs")
	}
	return jsonSuccess(c, blogs)
}

// Create creates a new blog.
func (h *BlogHandler) Create(c fiber.Ctx) error {
	var body blogBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	blog := &models.Blog{
		Slug:        body.Slug,
		Title:       body.Title,
		Content:     body.Content,
		IsPublished: body.IsPublished != nil && *body.IsPublished,
	}
	if err := h.db.CreateBlog(c.Context(), blog); err != nil {
		if errors.Is(err, db.ErrDuplicateSlug) {
			return jsonError(c, fiber.StatusConflict, "slug already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create blog")
	}
	return jsonSuccess(c, blog)
}

// Update updates an existing blog.
func (h *BlogHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid blog id")
	}

	var body blogBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	blog := &models.Blog{
		ID:          id,
		Slug:        body.Slug,
		Title:       body.Title,
		Content:     body.Content,
		IsPublished: body.IsPublished != nil && *body.IsPublished,
	}
	if err := h.db.UpdateBlog(c.Context(), blog); err != nil {
		switch {
		case errors.Is(err, db.ErrBlogNotFound):
			return jsonError(c, fiber.StatusNotFound, "blog not found")
		case errors.Is(err, db.ErrDuplicateSlug):
			return jsonError(c, fiber.StatusConflict, "slug already exists")
		default:
			return jsonError(c, fiber.StatusInternalServerError, "failed to update blog")
		}
	}
	return jsonSuccess(c, blog)
}

// Delete deletes a blog.
func (h *BlogHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid blog id")
	}

	if err := h.db.DeleteBlog(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrBlogNotFound) {
			return jsonError(c, fiber.StatusNotFound, "blog not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete blog")
	}
	return jsonSuccess(c, fiber.Map{"deleted": id})
}

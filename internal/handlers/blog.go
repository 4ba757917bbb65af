package handlers

import (
	"github.com/gofiber/fiber/v3"

	"funnelgate/internal/config"
	"funnelgate/internal/db"
)

// BlogHandler serves published CMS blog pages.
type BlogHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewBlogHandler creates a new blog handler.
func NewBlogHandler(database *db.DB, cfg *config.Config) *BlogHandler {
	return &BlogHandler{db: database, cfg: cfg}
}

// Show handles GET /blog/:slug.
func (h *BlogHandler) Show(c fiber.Ctx) error {
	blog, err := h.db.GetPublishedBlogBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("error", MergeBranding(fiber.Map{
			"Title":   "Not Found",
			"Message": "This page does not exist.",
		}, h.cfg))
	}

	return c.Render("blog", MergeBranding(fiber.Map{
		"Title": blog.Title,
		"Blog":  blog,
	}, h.cfg))
}

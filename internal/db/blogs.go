package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"funnelgate/internal/models"
)

const blogColumns = `id, slug, title, content, is_published, created_at, updated_at`

func scanBlog(row pgx.Row, b *models.Blog) error {
	return row.Scan(&b.ID, &b.Slug, &b.Title, &b.Content, &b.IsPublished, &b.CreatedAt, &b.UpdatedAt)
}

// GetPublishedBlogBySlug retrieves a published blog for the public surface.
func (d *DB) GetPublishedBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE slug = $1 AND is_published`

	var b models.Blog
	err := scanBlog(d.Pool.QueryRow(ctx, query, slug), &b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBlogNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBlogByID retrieves a blog by ID regardless of publish state.
func (d *DB) GetBlogByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`

	var b models.Blog
	err := scanBlog(d.Pool.QueryRow(ctx, query, id), &b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBlogNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBlogs returns all blogs, newest first.
func (d *DB) ListBlogs(ctx context.Context) ([]models.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs ORDER BY created_at DESC`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []models.Blog
	for rows.Next() {
		var b models.Blog
		if err := scanBlog(rows, &b); err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// CreateBlog creates a new blog.
func (d *DB) CreateBlog(ctx context.Context, b *models.Blog) error {
	query := `
		INSERT INTO blogs (slug, title, content, is_published)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query, b.Slug, b.Title, b.Content, b.IsPublished).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

// UpdateBlog updates an existing blog.
func (d *DB) UpdateBlog(ctx context.Context, b *models.Blog) error {
	query := `
		UPDATE blogs
		SET slug = $1, title = $2, content = $3, is_published = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := d.Pool.Exec(ctx, query, b.Slug, b.Title, b.Content, b.IsPublished, b.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// DeleteBlog deletes a blog.
func (d *DB) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

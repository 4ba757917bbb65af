package db

import "errors"

// Domain-level database error sentinels.
var (
	// Destination rule errors
	ErrRuleNotFound = errors.New("destination rule not found")

	// Fallback URL errors
	ErrFallbackURLNotFound = errors.New("fallback url not found")

	// Prelanding errors
	ErrPrelandingNotFound = errors.New("prelanding not found")

	// Blog errors
	ErrBlogNotFound  = errors.New("blog not found")
	ErrDuplicateSlug = errors.New("slug already exists")
)

package models

import (
	"time"

	"github.com/google/uuid"
)

// DestinationRule represents a configured offer link with an optional
// country allow-list. An absent or empty allow-list means "allow all".
type DestinationRule struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Link             string    `json:"link"`
	AllowedCountries []string  `json:"allowed_countries"`
	FallbackLink     *string   `json:"fallback_link"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Health status values for fallback URL candidates.
const (
	HealthUnknown   = "unknown"
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// FallbackURL is a candidate in the round-robin fallback pool.
// SequenceOrder defines the static ordering the sequencer cycles through.
type FallbackURL struct {
	ID               uuid.UUID  `json:"id"`
	URL              string     `json:"url"`
	SequenceOrder    int        `json:"sequence_order"`
	IsActive         bool       `json:"is_active"`
	AllowedCountries []string   `json:"allowed_countries"`
	HealthStatus     string     `json:"health_status"`
	HealthError      *string    `json:"health_error,omitempty"`
	LastCheckedAt    *time.Time `json:"last_checked_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Surfaces a visitor can enter the funnel through.
const (
	SurfaceDestination = "destination"
	SurfaceFallback    = "fallback"
	SurfaceDecisionAPI = "decision_api"
	SurfacePrelanding  = "prelanding"
)

// Session records a visitor arriving on a public surface.
type Session struct {
	ID          uuid.UUID `json:"id"`
	CountryCode string    `json:"country_code"`
	IP          string    `json:"ip"`
	UserAgent   string    `json:"user_agent"`
	Referer     string    `json:"referer"`
	Surface     string    `json:"surface"`
	CreatedAt   time.Time `json:"created_at"`
}

// Click records a navigation decision: which URL a visitor was sent to.
type Click struct {
	ID                uuid.UUID  `json:"id"`
	DestinationRuleID *uuid.UUID `json:"destination_rule_id"`
	FallbackURLID     *uuid.UUID `json:"fallback_url_id"`
	URL               string     `json:"url"`
	CountryCode       string     `json:"country_code"`
	Surface           string     `json:"surface"`
	CreatedAt         time.Time  `json:"created_at"`
}

// EmailCapture records an address submitted on a prelanding form.
type EmailCapture struct {
	ID           uuid.UUID `json:"id"`
	PrelandingID uuid.UUID `json:"prelanding_id"`
	Email        string    `json:"email"`
	Destination  string    `json:"destination"`
	CreatedAt    time.Time `json:"created_at"`
}

// DecisionOutcome is an aggregate counter of redirect decisions by surface
// and outcome, exported as Prometheus metrics.
type DecisionOutcome struct {
	Surface    string    `json:"surface"`
	Outcome    string    `json:"outcome"`
	Count      int64     `json:"count"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

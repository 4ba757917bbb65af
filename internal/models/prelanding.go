package models

import (
	"time"

	"github.com/google/uuid"
)

// Prelanding is an optional email-capture interstitial shown before final
// navigation to a destination rule's link.
type Prelanding struct {
	ID                uuid.UUID  `json:"id"`
	DestinationRuleID *uuid.UUID `json:"destination_rule_id"`
	Title             string     `json:"title"`
	Body              string     `json:"body"`
	ButtonText        string     `json:"button_text"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

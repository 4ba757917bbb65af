package models

// RuleDecisionResponse is returned by the decision endpoint when a specific
// destination rule is checked.
type RuleDecisionResponse struct {
	Allowed     bool   `json:"allowed"`
	Country     string `json:"country"`
	Destination string `json:"destination"`
}

// PoolDecisionResponse is returned by the decision endpoint for a generic
// fallback-pool check. Index is the cursor position that was served.
type PoolDecisionResponse struct {
	Country     string `json:"country"`
	Destination string `json:"destination"`
	Index       int    `json:"index"`
}

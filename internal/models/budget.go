package models

// BudgetRule is one parsed time-budget constraint: the subject may accrue at
// most MaxMinutes of matched usage inside any sliding window of WindowMinutes.
// Immutable once parsed; rule sets are replaced wholesale on reload.
type BudgetRule struct {
	Subject       string `json:"subject"` // case-insensitive match key
	MaxMinutes    int    `json:"max_minutes"`
	WindowMinutes int    `json:"window_minutes"`
}

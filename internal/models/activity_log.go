package models

import (
	"strings"
	"time"
)

// ActivityLogEntry is the append-only durable record of one analysis tick.
// Exactly one row is written per tick, in chronological order; degraded
// ticks carry the held-over status plus a failure reason.
type ActivityLogEntry struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Timestamp       time.Time   `gorm:"not null;index" json:"timestamp"`
	Status          FocusStatus `gorm:"not null;index" json:"status"`
	Reason          string      `gorm:"not null" json:"reason"`
	ActiveApp       string      `json:"active_app,omitempty"`
	EscalationFired bool        `gorm:"not null;default:false" json:"escalation_fired"`
	BudgetExceeded  string      `json:"budget_exceeded,omitempty"` // comma-joined subjects
	Degraded        bool        `gorm:"not null;default:false;index" json:"degraded"`
	FailureReason   string      `json:"failure_reason,omitempty"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// ExceededSubjects splits the stored BudgetExceeded column back into a list.
func (e *ActivityLogEntry) ExceededSubjects() []string {
	if e.BudgetExceeded == "" {
		return nil
	}
	return strings.Split(e.BudgetExceeded, ",")
}

// JoinSubjects is the inverse of ExceededSubjects.
func JoinSubjects(subjects []string) string {
	return strings.Join(subjects, ",")
}

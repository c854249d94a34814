package models

import (
	"time"
)

// FocusStatus is the classifier's verdict for one analysis tick
type FocusStatus string

const (
	StatusOnTask  FocusStatus = "on_task"
	StatusOffTask FocusStatus = "off_task"
	StatusBreak   FocusStatus = "break"
)

// Valid reports whether s is one of the three known statuses
func (s FocusStatus) Valid() bool {
	switch s {
	case StatusOnTask, StatusOffTask, StatusBreak:
		return true
	}
	return false
}

// ClassificationEvent is one classifier result. Immutable once produced:
// it is folded into state and appended to the activity log, never mutated.
type ClassificationEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	Status    FocusStatus `json:"status"`
	Reason    string      `json:"reason"`
	ActiveApp string      `json:"active_app,omitempty"`
}

// Subject returns the string budget rules are matched against: the active
// app when the classifier reported one, otherwise the free-text reason.
func (e *ClassificationEvent) Subject() string {
	if e.ActiveApp != "" {
		return e.ActiveApp
	}
	return e.Reason
}

package state

import (
	"time"

	"github.com/biirving/focus/internal/models"
)

// FocusState describes the current monitoring session. Exactly one exists per
// running instance. It is mutated only by the Machine and the escalation
// policy, on the monitor goroutine; everyone else reads copies.
type FocusState struct {
	Status             models.FocusStatus `json:"status"`
	StatusSince        time.Time          `json:"status_since"`
	ConsecutiveOffTask time.Duration      `json:"consecutive_off_task"`
	EscalationLevel    models.Severity    `json:"escalation_level"`
	LastNotifiedAt     time.Time          `json:"last_notified_at,omitzero"` // zero when no notification is pending
}

// Machine folds classification events into the session state.
type Machine struct {
	state FocusState
}

// NewMachine starts a session optimistically on task; the first real
// classification corrects it.
func NewMachine(start time.Time) *Machine {
	return &Machine{
		state: FocusState{
			Status:          models.StatusOnTask,
			StatusSince:     start,
			EscalationLevel: models.SeverityNone,
		},
	}
}

// Apply folds one event into the state and reports whether the status
// changed. Any status change ends the current escalation episode and resets
// its level, so an urgent fired during one episode (including a budget alert
// while on task) never carries into the next; leaving off_task also clears
// the last-notified timestamp.
func (m *Machine) Apply(ev *models.ClassificationEvent) bool {
	st := &m.state

	if ev.Status != st.Status {
		leavingOffTask := st.Status == models.StatusOffTask
		st.Status = ev.Status
		st.StatusSince = ev.Timestamp
		st.ConsecutiveOffTask = 0
		st.EscalationLevel = models.SeverityNone
		if leavingOffTask {
			st.LastNotifiedAt = time.Time{}
		}
		return true
	}

	if st.Status == models.StatusOffTask {
		st.ConsecutiveOffTask = ev.Timestamp.Sub(st.StatusSince)
	}
	return false
}

// State returns the live state for the escalation policy to update.
func (m *Machine) State() *FocusState {
	return &m.state
}

// Snapshot returns a copy safe to hand to other goroutines.
func (m *Machine) Snapshot() FocusState {
	return m.state
}

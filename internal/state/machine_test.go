package state

import (
	"testing"
	"time"

	"github.com/biirving/focus/internal/models"
)

var t0 = time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

func event(status models.FocusStatus, at time.Time) *models.ClassificationEvent {
	return &models.ClassificationEvent{Timestamp: at, Status: status, Reason: "test"}
}

func TestMachine_InitialState(t *testing.T) {
	m := NewMachine(t0)
	st := m.Snapshot()

	if st.Status != models.StatusOnTask {
		t.Errorf("initial status = %s, want on_task", st.Status)
	}
	if !st.StatusSince.Equal(t0) {
		t.Errorf("StatusSince = %v, want %v", st.StatusSince, t0)
	}
	if st.EscalationLevel != models.SeverityNone {
		t.Errorf("EscalationLevel = %s, want none", st.EscalationLevel)
	}
	if !st.LastNotifiedAt.IsZero() {
		t.Error("LastNotifiedAt should start clear")
	}
}

func TestMachine_TransitionResetsStatusSince(t *testing.T) {
	m := NewMachine(t0)

	changed := m.Apply(event(models.StatusOffTask, t0.Add(30*time.Second)))
	if !changed {
		t.Fatal("transition should report a change")
	}

	st := m.Snapshot()
	if st.Status != models.StatusOffTask {
		t.Errorf("status = %s, want off_task", st.Status)
	}
	if !st.StatusSince.Equal(t0.Add(30 * time.Second)) {
		t.Errorf("StatusSince = %v, want event timestamp", st.StatusSince)
	}
	if st.ConsecutiveOffTask != 0 {
		t.Errorf("ConsecutiveOffTask = %v, want 0 on entry", st.ConsecutiveOffTask)
	}
}

func TestMachine_OffTaskDurationAccumulates(t *testing.T) {
	m := NewMachine(t0)
	m.Apply(event(models.StatusOffTask, t0))

	changed := m.Apply(event(models.StatusOffTask, t0.Add(90*time.Second)))
	if changed {
		t.Error("same status should not report a change")
	}

	st := m.Snapshot()
	if st.ConsecutiveOffTask != 90*time.Second {
		t.Errorf("ConsecutiveOffTask = %v, want 90s", st.ConsecutiveOffTask)
	}
}

func TestMachine_LeavingOffTaskEndsEpisode(t *testing.T) {
	tests := []struct {
		name string
		next models.FocusStatus
	}{
		{"back on task", models.StatusOnTask},
		{"taking a break", models.StatusBreak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(t0)
			m.Apply(event(models.StatusOffTask, t0))

			// Simulate the escalation policy having fired.
			st := m.State()
			st.EscalationLevel = models.SeverityUrgent
			st.LastNotifiedAt = t0.Add(time.Minute)

			m.Apply(event(tt.next, t0.Add(2*time.Minute)))

			got := m.Snapshot()
			if got.EscalationLevel != models.SeverityNone {
				t.Errorf("EscalationLevel = %s, want none after leaving off_task", got.EscalationLevel)
			}
			if !got.LastNotifiedAt.IsZero() {
				t.Error("LastNotifiedAt should be cleared after leaving off_task")
			}
			if got.ConsecutiveOffTask != 0 {
				t.Errorf("ConsecutiveOffTask = %v, want 0", got.ConsecutiveOffTask)
			}
		})
	}
}

func TestMachine_EnteringOffTaskStartsFreshEpisode(t *testing.T) {
	m := NewMachine(t0)

	// Budget alert fired while still on task.
	st := m.State()
	st.EscalationLevel = models.SeverityUrgent
	st.LastNotifiedAt = t0

	m.Apply(event(models.StatusOffTask, t0.Add(3*time.Hour)))

	got := m.Snapshot()
	if got.EscalationLevel != models.SeverityNone {
		t.Errorf("EscalationLevel = %s, want none entering a new off-task episode", got.EscalationLevel)
	}
	if got.ConsecutiveOffTask != 0 {
		t.Errorf("ConsecutiveOffTask = %v, want 0", got.ConsecutiveOffTask)
	}
}

func TestMachine_OnTaskToBreakKeepsEscalationClear(t *testing.T) {
	m := NewMachine(t0)
	m.Apply(event(models.StatusBreak, t0.Add(time.Minute)))

	st := m.Snapshot()
	if st.EscalationLevel != models.SeverityNone {
		t.Errorf("EscalationLevel = %s, want none", st.EscalationLevel)
	}
	if st.Status != models.StatusBreak {
		t.Errorf("status = %s, want break", st.Status)
	}
}

// Escalation level must never decrease inside one off-task run and must
// reset the moment the run ends.
func TestMachine_EscalationMonotoneWithinEpisode(t *testing.T) {
	m := NewMachine(t0)

	sequence := []models.FocusStatus{
		models.StatusOffTask, models.StatusOffTask, models.StatusOffTask,
		models.StatusOnTask,
		models.StatusOffTask,
	}

	var prevLevel models.Severity = models.SeverityNone
	at := t0
	for i, status := range sequence {
		at = at.Add(30 * time.Second)
		m.Apply(event(status, at))
		st := m.Snapshot()

		if status == models.StatusOffTask {
			if severityRank(st.EscalationLevel) < severityRank(prevLevel) && i != 4 {
				t.Errorf("step %d: escalation decreased from %s to %s", i, prevLevel, st.EscalationLevel)
			}
			// Escalation only grows through the policy; simulate it.
			if i == 1 {
				m.State().EscalationLevel = models.SeverityGentle
			}
			if i == 2 {
				m.State().EscalationLevel = models.SeverityUrgent
			}
		} else if st.EscalationLevel != models.SeverityNone {
			t.Errorf("step %d: escalation %s survived end of episode", i, st.EscalationLevel)
		}
		prevLevel = st.EscalationLevel
	}

	// New episode starts clean.
	if got := m.Snapshot().EscalationLevel; got != models.SeverityNone {
		t.Errorf("new episode escalation = %s, want none", got)
	}
}

func severityRank(s models.Severity) int {
	switch s {
	case models.SeverityGentle:
		return 1
	case models.SeverityUrgent:
		return 2
	}
	return 0
}

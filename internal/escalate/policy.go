package escalate

import (
	"fmt"
	"time"

	"github.com/biirving/focus/internal/budget"
	"github.com/biirving/focus/internal/models"
	"github.com/biirving/focus/internal/state"
)

// Policy decides, once per tick after the state machine and budget check,
// whether a notification fires and how loudly.
//
// Cooldown policy: the cooldown gate runs before severity is computed, so a
// gentle-to-urgent crossing inside the cooldown window does not fire early;
// the first tick after cooldown expiry fires at urgent. Within one off-task
// episode the fired severity never downgrades.
type Policy struct {
	cooldown time.Duration
	delay    time.Duration
	urgentCh models.Channel
}

// NewPolicy builds a Policy. style selects the urgent channel hint: "banner"
// requests the full-width overlay, anything else the system alert center.
func NewPolicy(cooldown, escalationDelay time.Duration, style string) *Policy {
	urgentCh := models.ChannelSystem
	if style == "banner" {
		urgentCh = models.ChannelBanner
	}
	return &Policy{
		cooldown: cooldown,
		delay:    escalationDelay,
		urgentCh: urgentCh,
	}
}

// Evaluate applies the escalation rules for one event. It returns the
// notification to dispatch, or nil when nothing should fire. On fire it
// updates the state's escalation level and last-notified timestamp.
func (p *Policy) Evaluate(st *state.FocusState, ev *models.ClassificationEvent, activeOverBudget bool, exceeded []budget.Status, now time.Time) *models.Notification {
	// Nothing to complain about: suppressed, not queued.
	if st.Status != models.StatusOffTask && !activeOverBudget {
		return nil
	}

	// Cooldown in effect. Severity recalculation waits too.
	if !st.LastNotifiedAt.IsZero() && now.Sub(st.LastNotifiedAt) < p.cooldown {
		return nil
	}

	severity := models.SeverityGentle
	if st.ConsecutiveOffTask >= p.delay || activeOverBudget {
		severity = models.SeverityUrgent
	}
	if st.EscalationLevel == models.SeverityUrgent {
		severity = models.SeverityUrgent
	}

	channel := models.ChannelSystem
	if severity == models.SeverityUrgent {
		channel = p.urgentCh
	}

	st.EscalationLevel = severity
	st.LastNotifiedAt = now

	return &models.Notification{
		Severity: severity,
		Message:  p.message(st, ev, severity, exceeded),
		Channel:  channel,
	}
}

func (p *Policy) message(st *state.FocusState, ev *models.ClassificationEvent, severity models.Severity, exceeded []budget.Status) string {
	if st.Status != models.StatusOffTask && len(exceeded) > 0 {
		b := exceeded[0]
		return fmt.Sprintf("%s: %.0f/%d min used", b.Subject, b.UsedMinutes, b.MaxMinutes)
	}

	if severity == models.SeverityUrgent {
		minutes := int(st.ConsecutiveOffTask.Minutes())
		return fmt.Sprintf("You've been off-task for %d+ minutes (%s). Get back to work!", minutes, ev.Reason)
	}
	return fmt.Sprintf("Looks like you're %s. Time to refocus?", ev.Reason)
}

package budget

import (
	"sort"
	"strings"
	"time"

	"github.com/biirving/focus/internal/models"
)

// interval is one span of matched active usage. Windows never contain
// overlapping intervals: appends are clamped against the previous end.
type interval struct {
	start time.Time
	end   time.Time
}

func (iv interval) duration() time.Duration {
	return iv.end.Sub(iv.start)
}

// Status describes one rule's usage at a point in time.
type Status struct {
	Subject     string  `json:"subject"`
	UsedMinutes float64 `json:"used_minutes"`
	MaxMinutes  int     `json:"max_minutes"`
}

// Tracker accounts per-rule usage over sliding windows. It is owned by the
// monitor goroutine and must not be shared without external synchronization.
//
// Match policy: a rule applies when its subject, lowercased, is a substring
// of the lowercased candidate (active app, or reason text as fallback).
// Subjects are tracked independently; one rule going over budget never
// affects another's accounting.
type Tracker struct {
	rules   []models.BudgetRule
	windows map[string][]interval // keyed by lowercased rule subject
}

// NewTracker creates a Tracker for the given rule set.
func NewTracker(rules []models.BudgetRule) *Tracker {
	t := &Tracker{windows: make(map[string][]interval)}
	t.SetRules(rules)
	return t
}

// SetRules replaces the rule set wholesale. Accrued windows are retained for
// subjects whose rule definition is unchanged and discarded for the rest.
func (t *Tracker) SetRules(rules []models.BudgetRule) {
	old := make(map[string]models.BudgetRule, len(t.rules))
	for _, r := range t.rules {
		old[strings.ToLower(r.Subject)] = r
	}

	kept := make(map[string][]interval, len(rules))
	for _, r := range rules {
		key := strings.ToLower(r.Subject)
		if prev, ok := old[key]; ok && prev == r {
			kept[key] = t.windows[key]
		}
	}

	t.rules = append([]models.BudgetRule(nil), rules...)
	t.windows = kept
}

// Rules returns a copy of the active rule set.
func (t *Tracker) Rules() []models.BudgetRule {
	return append([]models.BudgetRule(nil), t.rules...)
}

// RecordActive appends a usage interval for every rule matching subject.
// No-op when nothing matches.
func (t *Tracker) RecordActive(subject string, at time.Time, d time.Duration) {
	if d <= 0 {
		return
	}
	for _, r := range t.rules {
		if !matches(r, subject) {
			continue
		}
		key := strings.ToLower(r.Subject)
		iv := interval{start: at, end: at.Add(d)}
		win := t.windows[key]
		if n := len(win); n > 0 && iv.start.Before(win[n-1].end) {
			// Keep the no-overlap invariant for out-of-order clock jitter.
			iv.start = win[n-1].end
			if !iv.end.After(iv.start) {
				continue
			}
		}
		t.windows[key] = append(win, iv)
	}
}

// IsOverBudget reports whether any rule matching subject has accrued at least
// its allowed minutes inside its sliding window ending at the given time.
func (t *Tracker) IsOverBudget(subject string, at time.Time) bool {
	for _, r := range t.rules {
		if matches(r, subject) && t.overBudget(r, at) {
			return true
		}
	}
	return false
}

// Exceeded returns the status of every rule currently over budget, ordered
// by subject.
func (t *Tracker) Exceeded(at time.Time) []Status {
	var out []Status
	for _, r := range t.rules {
		if !t.overBudget(r, at) {
			continue
		}
		used := t.usage(r, at)
		out = append(out, Status{
			Subject:     r.Subject,
			UsedMinutes: used.Minutes(),
			MaxMinutes:  r.MaxMinutes,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out
}

func (t *Tracker) overBudget(r models.BudgetRule, at time.Time) bool {
	return t.usage(r, at) >= time.Duration(r.MaxMinutes)*time.Minute
}

// usage prunes the rule's window and sums the remaining interval durations.
// Pruning is lazy and monotonic: a dropped interval never comes back.
func (t *Tracker) usage(r models.BudgetRule, at time.Time) time.Duration {
	key := strings.ToLower(r.Subject)
	cutoff := at.Add(-time.Duration(r.WindowMinutes) * time.Minute)

	win := t.windows[key]
	keep := win[:0]
	var total time.Duration
	for _, iv := range win {
		if iv.end.Before(cutoff) {
			continue
		}
		keep = append(keep, iv)
		total += iv.duration()
	}
	t.windows[key] = keep
	return total
}

func matches(r models.BudgetRule, subject string) bool {
	return strings.Contains(strings.ToLower(subject), strings.ToLower(r.Subject))
}

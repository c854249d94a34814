package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/biirving/focus/internal/activity"
	"github.com/biirving/focus/internal/budget"
	"github.com/biirving/focus/internal/capture"
	"github.com/biirving/focus/internal/classifier"
	"github.com/biirving/focus/internal/config"
	"github.com/biirving/focus/internal/escalate"
	"github.com/biirving/focus/internal/logging"
	"github.com/biirving/focus/internal/models"
	"github.com/biirving/focus/internal/notify"
	"github.com/biirving/focus/internal/rules"
	"github.com/biirving/focus/internal/state"

	"github.com/pkg/errors"
)

// maxHistoryTail bounds the in-memory tail used for classifier context.
const maxHistoryTail = 10

// Service owns the control loop: it drives the capture and analysis
// cadences, invokes the classifier, and folds each result through the state
// machine, budget tracker, escalation policy, and activity log in that fixed
// order. All session state has this goroutine as its single writer; readers
// go through Snapshot.
type Service struct {
	cfg        *config.Config
	log        *logging.Logger
	source     capture.Source
	classifier classifier.Classifier
	dispatcher notify.Dispatcher
	rules      *rules.Source
	summaries  SummaryGenerator

	// mu makes each tick's state updates one atomic step for readers.
	mu         sync.Mutex
	machine    *state.Machine
	tracker    *budget.Tracker
	policy     *escalate.Policy
	alog       *activity.Log
	tail       []*models.ActivityLogEntry
	overBudget []budget.Status
	running    bool

	captureMu     sync.Mutex
	latestCapture [][]byte

	stopChan     chan struct{}
	lastTickDate string
}

// SummaryGenerator triggers day-boundary summary generation. Satisfied by
// summary.Service.
type SummaryGenerator interface {
	Generate(date time.Time) (*models.DailySummary, error)
}

// Snapshot is a copy-on-read view of the session for presentation consumers.
// A reader never observes a half-updated tick.
type Snapshot struct {
	Running       bool             `json:"running"`
	State         state.FocusState `json:"state"`
	OverBudget    []budget.Status  `json:"over_budget,omitempty"`
	LastActivity  string           `json:"last_activity,omitempty"`
	PendingWrites int              `json:"pending_writes"`
}

// NewService wires the control loop.
func NewService(
	cfg *config.Config,
	log *logging.Logger,
	source capture.Source,
	cls classifier.Classifier,
	dispatcher notify.Dispatcher,
	ruleSource *rules.Source,
	alog *activity.Log,
	summaries SummaryGenerator,
) *Service {
	return &Service{
		cfg:        cfg,
		log:        log,
		source:     source,
		classifier: cls,
		dispatcher: dispatcher,
		rules:      ruleSource,
		summaries:  summaries,
		machine:    state.NewMachine(time.Now()),
		tracker:    budget.NewTracker(ruleSource.Current().Budgets),
		policy:     escalate.NewPolicy(cfg.Notify.Cooldown, cfg.Notify.EscalationDelay, cfg.Notify.Style),
		alog:       alog,
		stopChan:   make(chan struct{}),
	}
}

// Start runs the loop until ctx is cancelled or Stop is called. Cancellation
// is checked at tick boundaries only; an in-flight classifier call may
// finish, but its result is discarded after shutdown.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("monitor is already running")
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.log.Info("starting monitor",
		"capture_interval", s.cfg.Monitor.CaptureInterval,
		"analysis_interval", s.cfg.Monitor.AnalysisInterval,
		"budgets", len(s.tracker.Rules()),
	)

	go s.captureLoop(ctx)

	ticker := time.NewTicker(s.cfg.Monitor.AnalysisInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("monitor stopped by context")
			return ctx.Err()

		case <-s.stopChan:
			s.log.Info("monitor stopped")
			return nil

		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

// Stop asks the loop to exit at the next tick boundary.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		close(s.stopChan)
		s.running = false
	}
}

// Snapshot returns a consistent copy of the current session state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Running:       s.running,
		State:         s.machine.Snapshot(),
		OverBudget:    append([]budget.Status(nil), s.overBudget...),
		PendingWrites: s.alog.PendingCount(),
	}
	if n := len(s.tail); n > 0 {
		snap.LastActivity = s.tail[n-1].Reason
	}
	return snap
}

// captureLoop polls the capture source on the capture cadence and keeps only
// the most recent result for the next analysis tick.
func (s *Service) captureLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Monitor.CaptureInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			images, err := s.source.Capture(ctx)
			if err != nil {
				s.log.Debug("capture failed", "error", err)
				continue
			}
			s.captureMu.Lock()
			s.latestCapture = images
			s.captureMu.Unlock()
		}
	}
}

// runTick performs one analysis tick. The classifier call runs with no lock
// held; everything before and after it is a single atomic step.
func (s *Service) runTick(ctx context.Context) {
	s.mu.Lock()
	s.alog.Flush()

	set, reloaded := s.rules.ReloadIfChanged()
	if reloaded {
		s.tracker.SetRules(set.Budgets)
		s.log.Info("rules reloaded", "budgets", len(set.Budgets))
	}

	req := classifier.Request{
		PolicyText:    set.Text,
		BudgetContext: s.budgetContext(),
		History:       s.formatHistory(),
	}
	s.mu.Unlock()

	s.captureMu.Lock()
	req.Images = s.latestCapture
	s.captureMu.Unlock()

	if len(req.Images) == 0 {
		// Nothing captured yet; analyzing nothing would be guesswork.
		s.log.Debug("no capture available, skipping tick")
		return
	}

	clsCtx, cancel := context.WithTimeout(ctx, s.cfg.Monitor.ClassifierTimeout)
	ev, err := s.classifier.Classify(clsCtx, req)
	cancel()

	if ctx.Err() != nil {
		// Shut down between dispatch and result: discard, never apply.
		return
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil && ev == nil {
		err = errors.Wrap(classifier.ErrBadResponse, "empty classification")
	}
	if err == nil && !ev.Status.Valid() {
		err = errors.Wrapf(classifier.ErrBadResponse, "unknown status %q", ev.Status)
	}
	if err != nil {
		s.degradedTick(now, err)
		return
	}

	if ev.Timestamp.IsZero() {
		ev.Timestamp = now
	}

	changed := s.machine.Apply(ev)
	if changed {
		s.log.Info("status changed", "status", string(ev.Status), "reason", ev.Reason)
	}

	// The tick's span counts as active usage of whatever was on screen.
	interval := s.cfg.Monitor.AnalysisInterval
	s.tracker.RecordActive(ev.Subject(), ev.Timestamp.Add(-interval), interval)

	activeOver := s.tracker.IsOverBudget(ev.Subject(), ev.Timestamp)
	exceeded := s.tracker.Exceeded(ev.Timestamp)
	s.overBudget = exceeded

	notif := s.policy.Evaluate(s.machine.State(), ev, activeOver, exceeded, ev.Timestamp)
	if notif != nil {
		s.dispatch(*notif)
	}

	subjects := make([]string, len(exceeded))
	for i, b := range exceeded {
		subjects[i] = b.Subject
	}

	entry := &models.ActivityLogEntry{
		Timestamp:       ev.Timestamp,
		Status:          ev.Status,
		Reason:          ev.Reason,
		ActiveApp:       ev.ActiveApp,
		EscalationFired: notif != nil,
		BudgetExceeded:  models.JoinSubjects(subjects),
	}
	s.alog.Append(entry)
	s.pushTail(entry)

	s.log.Debug("tick",
		"status", string(ev.Status),
		"reason", ev.Reason,
		"escalation_fired", notif != nil,
		"over_budget", len(exceeded),
	)

	s.rolloverIfNeeded(ev.Timestamp)
}

// degradedTick records a classifier failure without touching session state:
// the previous status is held over, no notification fires.
func (s *Service) degradedTick(now time.Time, cause error) {
	if errors.Is(cause, context.DeadlineExceeded) {
		cause = classifier.ErrTimeout
	}

	prev := s.machine.Snapshot()
	entry := &models.ActivityLogEntry{
		Timestamp:     now,
		Status:        prev.Status,
		Reason:        "classification unavailable",
		Degraded:      true,
		FailureReason: cause.Error(),
	}
	s.alog.Append(entry)

	s.log.Debug("degraded tick", "held_status", string(prev.Status), "error", cause)
	s.rolloverIfNeeded(now)
}

// dispatch hands a notification to the external dispatcher without letting
// it block or fail the loop.
func (s *Service) dispatch(n models.Notification) {
	go func() {
		if err := s.dispatcher.Dispatch(n); err != nil {
			s.log.Warn("notification dispatch failed", "severity", string(n.Severity), "error", err)
		}
	}()
}

// rolloverIfNeeded triggers summary generation for the previous day the
// first time a tick lands on a new date. The generator only reads committed
// rows, so it runs in the background.
func (s *Service) rolloverIfNeeded(at time.Time) {
	today := at.Format(models.DateLayout)
	if s.lastTickDate != "" && s.lastTickDate != today && s.summaries != nil {
		prev, err := time.ParseInLocation(models.DateLayout, s.lastTickDate, at.Location())
		if err == nil {
			go func() {
				if _, err := s.summaries.Generate(prev); err != nil {
					s.log.Error("day rollover summary failed", "date", prev.Format(models.DateLayout), "error", err)
				}
			}()
		}
	}
	s.lastTickDate = today
}

func (s *Service) pushTail(entry *models.ActivityLogEntry) {
	s.tail = append(s.tail, entry)
	if len(s.tail) > maxHistoryTail {
		s.tail = s.tail[len(s.tail)-maxHistoryTail:]
	}
}

// budgetContext names subjects currently over budget for the classifier.
func (s *Service) budgetContext() []string {
	out := make([]string, len(s.overBudget))
	for i, b := range s.overBudget {
		out[i] = fmt.Sprintf("%s: %.0f/%d min used", b.Subject, b.UsedMinutes, b.MaxMinutes)
	}
	return out
}

// formatHistory renders the recent tail plus the current streak as context
// for the classifier.
func (s *Service) formatHistory() string {
	if len(s.tail) == 0 {
		return "No activity recorded yet."
	}

	var b strings.Builder
	for _, e := range s.tail {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", e.Timestamp.Format("15:04:05"), e.Status, e.Reason)
	}

	st := s.machine.Snapshot()
	fmt.Fprintf(&b, "\nCurrent streak: %s for %.0fs", st.Status, time.Since(st.StatusSince).Seconds())
	return b.String()
}

package summary

import (
	"testing"
	"time"

	"github.com/biirving/focus/internal/models"
)

var day = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

const tick = 30 * time.Second

func entry(at time.Time, status models.FocusStatus) *models.ActivityLogEntry {
	return &models.ActivityLogEntry{Timestamp: at, Status: status}
}

// run builds a day of back-to-back ticks: n on-task entries followed by m
// off-task entries, each spanning one tick interval.
func run(onTicks, offTicks int) []*models.ActivityLogEntry {
	var entries []*models.ActivityLogEntry
	at := day.Add(9 * time.Hour)
	for i := 0; i < onTicks; i++ {
		entries = append(entries, entry(at, models.StatusOnTask))
		at = at.Add(tick)
	}
	for i := 0; i < offTicks; i++ {
		entries = append(entries, entry(at, models.StatusOffTask))
		at = at.Add(tick)
	}
	return entries
}

func priorsWithRatio(ratio float64, days int) []*models.DailySummary {
	priors := make([]*models.DailySummary, days)
	for i := range priors {
		priors[i] = &models.DailySummary{OnTaskRatio: ratio}
	}
	return priors
}

func TestCompute_Rank(t *testing.T) {
	tests := []struct {
		name     string
		onTicks  int
		offTicks int
		baseline float64
		want     models.Rank
	}{
		// The ratio is onTicks/(onTicks+offTicks); against a 0.60 baseline
		// the band cutoffs sit at 0.80, 0.65, 0.55, and 0.40, with exact
		// hits landing in the better band.
		{"well above baseline", 100, 20, 0.60, models.RankPaulDirac},
		{"slightly above", 80, 40, 0.60, models.RankProductive},
		{"near baseline", 60, 40, 0.60, models.RankNothingSpecial},
		{"slightly below", 50, 50, 0.60, models.RankLazy},
		{"well below", 20, 80, 0.60, models.RankWasteOfATP},
		{"tie at dirac threshold", 80, 20, 0.60, models.RankPaulDirac},
		{"tie at lazy threshold", 40, 60, 0.60, models.RankLazy},
		{"everything off-task", 0, 100, 0.60, models.RankWasteOfATP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(day, run(tt.onTicks, tt.offTicks), priorsWithRatio(tt.baseline, 5), tick)
			if s.Rank != tt.want {
				t.Errorf("rank = %s (ratio %.3f, baseline %.3f), want %s", s.Rank, s.OnTaskRatio, s.BaselineRatio, tt.want)
			}
		})
	}
}

func TestCompute_NoBaselineIsNothingSpecial(t *testing.T) {
	s := Compute(day, run(100, 0), nil, tick)
	if s.Rank != models.RankNothingSpecial {
		t.Errorf("rank = %s, want nothing special with no prior days", s.Rank)
	}
	if s.BaselineRatio != 0 {
		t.Errorf("baseline = %f, want 0", s.BaselineRatio)
	}
}

func TestCompute_BaselineIsMeanOfPriors(t *testing.T) {
	priors := []*models.DailySummary{
		{OnTaskRatio: 0.50},
		{OnTaskRatio: 0.70},
		{OnTaskRatio: 0.60},
	}
	s := Compute(day, run(10, 10), priors, tick)
	if s.BaselineRatio != 0.60 {
		t.Errorf("baseline = %f, want 0.60", s.BaselineRatio)
	}
}

func TestCompute_BreakTimeExcludedFromRatio(t *testing.T) {
	at := day.Add(9 * time.Hour)
	entries := []*models.ActivityLogEntry{
		entry(at, models.StatusOnTask),
		entry(at.Add(tick), models.StatusOnTask),
		entry(at.Add(2*tick), models.StatusBreak),
		entry(at.Add(3*tick), models.StatusBreak),
		entry(at.Add(4*tick), models.StatusOffTask),
	}

	s := Compute(day, entries, priorsWithRatio(0.60, 3), tick)
	if want := 2.0 / 3.0; s.OnTaskRatio != want {
		t.Errorf("ratio = %f, want %f (breaks excluded)", s.OnTaskRatio, want)
	}
	if s.BreakSeconds != 60 {
		t.Errorf("break seconds = %d, want 60", s.BreakSeconds)
	}
}

func TestCompute_EmptyDay(t *testing.T) {
	s := Compute(day, nil, priorsWithRatio(0.60, 3), tick)
	if s.OnTaskRatio != 0 {
		t.Errorf("ratio = %f, want 0", s.OnTaskRatio)
	}
	if s.Rank != models.RankWasteOfATP {
		t.Errorf("rank = %s, want waste of ATP (0 against 0.60 baseline)", s.Rank)
	}
	if s.Checks != 0 {
		t.Errorf("checks = %d, want 0", s.Checks)
	}
}

func TestCompute_AllBreakDayScoresZero(t *testing.T) {
	s := Compute(day, []*models.ActivityLogEntry{
		entry(day.Add(12*time.Hour), models.StatusBreak),
		entry(day.Add(12*time.Hour+tick), models.StatusBreak),
	}, nil, tick)
	if s.OnTaskRatio != 0 {
		t.Errorf("ratio = %f, want 0 for a day of nothing but breaks", s.OnTaskRatio)
	}
}

func TestCompute_LastEntrySpansOneTick(t *testing.T) {
	s := Compute(day, run(1, 0), nil, tick)
	if s.OnTaskSeconds != int64(tick.Seconds()) {
		t.Errorf("on-task seconds = %d, want %d", s.OnTaskSeconds, int64(tick.Seconds()))
	}
}

func TestCompute_GapsAttributeToEarlierEntry(t *testing.T) {
	at := day.Add(9 * time.Hour)
	entries := []*models.ActivityLogEntry{
		entry(at, models.StatusOnTask),
		entry(at.Add(10*time.Minute), models.StatusOffTask), // daemon was down in between
	}

	s := Compute(day, entries, nil, tick)
	if s.OnTaskSeconds != 600 {
		t.Errorf("on-task seconds = %d, want 600 (gap counts toward the older entry)", s.OnTaskSeconds)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	entries := run(37, 13)
	priors := priorsWithRatio(0.55, 7)

	a := Compute(day, entries, priors, tick)
	b := Compute(day, entries, priors, tick)
	if *a != *b {
		t.Errorf("recompute differs: %+v vs %+v", a, b)
	}
}

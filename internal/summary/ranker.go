package summary

import (
	"time"

	"github.com/biirving/focus/internal/models"
)

// Rank thresholds relative to the rolling baseline ratio. Ties resolve to
// the better band.
const (
	diracDelta      = 0.20
	productiveDelta = 0.05
	ordinaryDelta   = -0.05
	lazyDelta       = -0.20
)

// Compute builds the daily summary for one calendar day. It is a pure
// function over the day's log slice and the prior summaries, so a day can be
// replayed deterministically: identical inputs yield an identical summary.
//
// Each entry contributes the span until the next entry; the last entry
// contributes one analysis interval. Degraded entries carry the held-over
// status and are counted under it. Break time is excluded from both sides of
// the ratio; a day with no observed on- or off-task time scores zero.
func Compute(date time.Time, entries []*models.ActivityLogEntry, priors []*models.DailySummary, tickInterval time.Duration) *models.DailySummary {
	var onTask, offTask, onBreak time.Duration

	for i, e := range entries {
		var span time.Duration
		if i+1 < len(entries) {
			span = entries[i+1].Timestamp.Sub(e.Timestamp)
		} else {
			span = tickInterval
		}
		if span < 0 {
			span = 0
		}

		switch e.Status {
		case models.StatusOnTask:
			onTask += span
		case models.StatusOffTask:
			offTask += span
		case models.StatusBreak:
			onBreak += span
		}
	}

	var ratio float64
	if observed := onTask + offTask; observed > 0 {
		ratio = float64(onTask) / float64(observed)
	}

	baseline, hasBaseline := baselineRatio(priors)

	return &models.DailySummary{
		Date:           date.Format(models.DateLayout),
		OnTaskRatio:    ratio,
		BaselineRatio:  baseline,
		Rank:           rank(ratio, baseline, hasBaseline),
		OnTaskSeconds:  int64(onTask.Seconds()),
		OffTaskSeconds: int64(offTask.Seconds()),
		BreakSeconds:   int64(onBreak.Seconds()),
		Checks:         len(entries),
	}
}

// baselineRatio is the arithmetic mean of the prior days' stored ratios.
// Baselines never derive from other baselines, so recomputing one day cannot
// shift any other day's rank.
func baselineRatio(priors []*models.DailySummary) (float64, bool) {
	if len(priors) == 0 {
		return 0, false
	}
	var sum float64
	for _, p := range priors {
		sum += p.OnTaskRatio
	}
	return sum / float64(len(priors)), true
}

func rank(ratio, baseline float64, hasBaseline bool) models.Rank {
	if !hasBaseline {
		// No history yet: nothing to compare against.
		return models.RankNothingSpecial
	}

	switch {
	case ratio >= baseline+diracDelta:
		return models.RankPaulDirac
	case ratio >= baseline+productiveDelta:
		return models.RankProductive
	case ratio >= baseline+ordinaryDelta:
		return models.RankNothingSpecial
	case ratio >= baseline+lazyDelta:
		return models.RankLazy
	}
	return models.RankWasteOfATP
}

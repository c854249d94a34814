package summary

import (
	"time"

	"github.com/biirving/focus/internal/activity"
	"github.com/biirving/focus/internal/config"
	"github.com/biirving/focus/internal/logging"
	"github.com/biirving/focus/internal/models"

	"github.com/pkg/errors"
)

// Service generates and persists daily summaries. It only reads committed
// activity log rows, so it can run concurrently with the live monitor.
type Service struct {
	cfg        *config.Config
	activities *activity.Repository
	repo       *Repository
	log        *logging.Logger
}

// NewService creates a summary service
func NewService(cfg *config.Config, activities *activity.Repository, repo *Repository, log *logging.Logger) *Service {
	return &Service{
		cfg:        cfg,
		activities: activities,
		repo:       repo,
		log:        log,
	}
}

// Generate computes, stores, and returns the summary for the given day.
// Re-running it for an unchanged day produces an identical summary; it
// overwrites only that day's row.
func (s *Service) Generate(date time.Time) (*models.DailySummary, error) {
	entries, err := s.activities.EntriesForDate(date)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load day's activity")
	}

	priors, err := s.repo.PriorDays(date.Format(models.DateLayout), s.cfg.Summary.BaselineDays)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load prior summaries")
	}

	sum := Compute(date, entries, priors, s.cfg.Monitor.AnalysisInterval)
	if err := s.repo.Upsert(sum); err != nil {
		return nil, err
	}

	s.log.Info("daily summary generated",
		"date", sum.Date,
		"ratio", sum.OnTaskRatio,
		"baseline", sum.BaselineRatio,
		"rank", string(sum.Rank),
		"checks", sum.Checks,
	)
	return sum, nil
}

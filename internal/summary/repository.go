package summary

import (
	"github.com/biirving/focus/internal/database"
	"github.com/biirving/focus/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for daily summaries. Summaries
// are keyed by date; only the ranker writes them.
type Repository struct {
	db *database.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Upsert stores the summary for its date, overwriting an existing row for
// the same date.
func (r *Repository) Upsert(s *models.DailySummary) error {
	var existing models.DailySummary
	result := r.db.Where("date = ?", s.Date).First(&existing)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			if err := r.db.Create(s).Error; err != nil {
				return errors.Wrap(err, "failed to insert daily summary")
			}
			return nil
		}
		return errors.Wrap(result.Error, "failed to look up daily summary")
	}

	s.ID = existing.ID
	s.CreatedAt = existing.CreatedAt
	if err := r.db.Save(s).Error; err != nil {
		return errors.Wrap(err, "failed to update daily summary")
	}
	return nil
}

// ForDate retrieves the summary for a date key, or nil if none exists
func (r *Repository) ForDate(date string) (*models.DailySummary, error) {
	var s models.DailySummary
	result := r.db.Where("date = ?", date).First(&s)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get daily summary")
	}
	return &s, nil
}

// PriorDays retrieves up to limit summaries strictly before the given date
// key, most recent first
func (r *Repository) PriorDays(before string, limit int) ([]*models.DailySummary, error) {
	var summaries []*models.DailySummary
	result := r.db.Where("date < ?", before).
		Order("date DESC").
		Limit(limit).
		Find(&summaries)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query prior summaries")
	}
	return summaries, nil
}

// RecentDays retrieves the most recent summaries, newest first
func (r *Repository) RecentDays(limit int) ([]*models.DailySummary, error) {
	var summaries []*models.DailySummary
	result := r.db.Order("date DESC").Limit(limit).Find(&summaries)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query recent summaries")
	}
	return summaries, nil
}

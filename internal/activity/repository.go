package activity

import (
	"time"

	"github.com/biirving/focus/internal/database"
	"github.com/biirving/focus/internal/models"

	"github.com/pkg/errors"
)

// Repository handles all database operations for activity log entries.
// Entries are append-only: nothing here updates or deletes within retention.
type Repository struct {
	db *database.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts one activity log entry
func (r *Repository) Append(entry *models.ActivityLogEntry) error {
	result := r.db.Create(entry)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert activity log entry")
	}
	return nil
}

// EntriesForDate retrieves all entries whose timestamp falls on the given
// calendar day in the given location, in chronological order
func (r *Repository) EntriesForDate(date time.Time) ([]*models.ActivityLogEntry, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24 * time.Hour)

	var entries []*models.ActivityLogEntry
	result := r.db.Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query activity log entries")
	}
	return entries, nil
}

// EntriesSince retrieves all entries since a given time in chronological order
func (r *Repository) EntriesSince(since time.Time) ([]*models.ActivityLogEntry, error) {
	var entries []*models.ActivityLogEntry
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&entries)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query activity log entries")
	}
	return entries, nil
}

// Recent retrieves the most recent entries, newest first
func (r *Repository) Recent(limit int) ([]*models.ActivityLogEntry, error) {
	var entries []*models.ActivityLogEntry
	result := r.db.Order("timestamp DESC").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query recent entries")
	}
	return entries, nil
}

// Clear removes all activity log entries
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM activity_log_entries")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear activity log")
	}
	return nil
}

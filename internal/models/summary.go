package models

import (
	"time"
)

// Rank is the qualitative band a day lands in relative to the rolling
// baseline, worst to best.
type Rank string

const (
	RankWasteOfATP     Rank = "waste of ATP"
	RankLazy           Rank = "lazy"
	RankNothingSpecial Rank = "nothing special"
	RankProductive     Rank = "productive"
	RankPaulDirac      Rank = "paul dirac"
)

// DateLayout is the canonical key format for daily summaries.
const DateLayout = "2006-01-02"

// DailySummary is the once-per-day aggregate over the activity log. Only the
// ranker writes these; recomputation overwrites the row for its date and
// nothing else.
type DailySummary struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Date           string    `gorm:"not null;uniqueIndex" json:"date"` // DateLayout
	OnTaskRatio    float64   `gorm:"not null" json:"on_task_ratio"`
	BaselineRatio  float64   `gorm:"not null" json:"baseline_ratio"`
	Rank           Rank      `gorm:"not null" json:"rank"`
	OnTaskSeconds  int64     `gorm:"not null;default:0" json:"on_task_seconds"`
	OffTaskSeconds int64     `gorm:"not null;default:0" json:"off_task_seconds"`
	BreakSeconds   int64     `gorm:"not null;default:0" json:"break_seconds"`
	Checks         int       `gorm:"not null;default:0" json:"checks"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

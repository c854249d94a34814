package summary

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/biirving/focus/internal/activity"
	"github.com/biirving/focus/internal/config"
	"github.com/biirving/focus/internal/database"
	"github.com/biirving/focus/internal/logging"
	"github.com/biirving/focus/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "focus.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRepository_UpsertOverwritesSameDate(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	first := &models.DailySummary{Date: "2026-08-27", OnTaskRatio: 0.50, Rank: models.RankLazy, Checks: 100}
	if err := repo.Upsert(first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second := &models.DailySummary{Date: "2026-08-27", OnTaskRatio: 0.75, Rank: models.RankProductive, Checks: 120}
	if err := repo.Upsert(second); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	got, err := repo.ForDate("2026-08-27")
	if err != nil {
		t.Fatalf("for date: %v", err)
	}
	if got == nil {
		t.Fatal("summary missing after upsert")
	}
	if got.ID != first.ID {
		t.Errorf("row ID changed on overwrite: %d vs %d", got.ID, first.ID)
	}
	if got.OnTaskRatio != 0.75 || got.Rank != models.RankProductive || got.Checks != 120 {
		t.Errorf("got %+v, want the second write's values", got)
	}

	all, err := repo.RecentDays(10)
	if err != nil {
		t.Fatalf("recent days: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d rows for one date, want 1", len(all))
	}
}

func TestRepository_ForDateMissingIsNil(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	got, err := repo.ForDate("2026-01-01")
	if err != nil {
		t.Fatalf("for date: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for an absent date", got)
	}
}

func TestRepository_PriorDays(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	for _, date := range []string{"2026-08-24", "2026-08-25", "2026-08-26", "2026-08-27"} {
		if err := repo.Upsert(&models.DailySummary{Date: date, OnTaskRatio: 0.5}); err != nil {
			t.Fatalf("upsert %s: %v", date, err)
		}
	}

	priors, err := repo.PriorDays("2026-08-26", 2)
	if err != nil {
		t.Fatalf("prior days: %v", err)
	}
	if len(priors) != 2 {
		t.Fatalf("got %d priors, want 2", len(priors))
	}
	if priors[0].Date != "2026-08-25" || priors[1].Date != "2026-08-24" {
		t.Errorf("priors = [%s %s], want newest-first strictly before the date",
			priors[0].Date, priors[1].Date)
	}
}

func TestService_GenerateEndToEnd(t *testing.T) {
	db := newTestDB(t)
	activities := activity.NewRepository(db)
	repo := NewRepository(db)

	cfg := config.Default()
	cfg.Summary.BaselineDays = 7
	svc := NewService(cfg, activities, repo, logging.NewNop())

	// Two prior days at a 0.50 baseline.
	for _, date := range []string{"2026-08-26", "2026-08-27"} {
		if err := repo.Upsert(&models.DailySummary{Date: date, OnTaskRatio: 0.50}); err != nil {
			t.Fatalf("seed prior: %v", err)
		}
	}

	// A day that is 75% on-task.
	target := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)
	at := target.Add(10 * time.Hour)
	statuses := []models.FocusStatus{
		models.StatusOnTask, models.StatusOnTask, models.StatusOnTask, models.StatusOffTask,
	}
	for i, st := range statuses {
		err := activities.Append(&models.ActivityLogEntry{
			Timestamp: at.Add(time.Duration(i) * cfg.Monitor.AnalysisInterval),
			Status:    st,
			Reason:    "test",
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	sum, err := svc.Generate(target)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if sum.Date != "2026-08-28" {
		t.Errorf("date = %s", sum.Date)
	}
	if sum.OnTaskRatio != 0.75 {
		t.Errorf("ratio = %f, want 0.75", sum.OnTaskRatio)
	}
	if sum.BaselineRatio != 0.50 {
		t.Errorf("baseline = %f, want 0.50", sum.BaselineRatio)
	}
	if sum.Rank != models.RankPaulDirac {
		t.Errorf("rank = %s, want paul dirac (0.75 >= 0.50+0.20)", sum.Rank)
	}
	if sum.Checks != 4 {
		t.Errorf("checks = %d, want 4", sum.Checks)
	}

	// Replaying the same day changes nothing.
	again, err := svc.Generate(target)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if again.OnTaskRatio != sum.OnTaskRatio || again.Rank != sum.Rank {
		t.Errorf("regenerated summary differs: %+v vs %+v", again, sum)
	}

	rows, err := repo.RecentDays(10)
	if err != nil {
		t.Fatalf("recent days: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("got %d rows, want 3", len(rows))
	}
}

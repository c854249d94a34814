package summary

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/biirving/focus/internal/models"
)

// FormatText formats one summary as human-readable text
func FormatText(s *models.DailySummary) string {
	day, err := time.Parse(models.DateLayout, s.Date)
	display := s.Date
	if err == nil {
		display = day.Format("Monday, Jan 2 2006")
	}

	output := fmt.Sprintf("Daily Summary - %s\n", display)
	output += fmt.Sprintf("Rank: %s\n", s.Rank)
	output += fmt.Sprintf("On-task ratio: %.1f%% (baseline %.1f%%)\n", s.OnTaskRatio*100, s.BaselineRatio*100)
	output += fmt.Sprintf("On task:  %s\n", formatSeconds(s.OnTaskSeconds))
	output += fmt.Sprintf("Off task: %s\n", formatSeconds(s.OffTaskSeconds))
	output += fmt.Sprintf("Breaks:   %s\n", formatSeconds(s.BreakSeconds))
	output += fmt.Sprintf("Checks:   %d\n", s.Checks)
	return output
}

// FormatRecent formats a multi-day listing, newest first
func FormatRecent(summaries []*models.DailySummary) string {
	if len(summaries) == 0 {
		return "No summaries recorded yet.\n"
	}

	output := fmt.Sprintf("%-12s %10s %10s  %s\n", "Date", "Ratio", "Baseline", "Rank")
	output += "------------------------------------------------------\n"
	for _, s := range summaries {
		output += fmt.Sprintf("%-12s %9.1f%% %9.1f%%  %s\n",
			s.Date, s.OnTaskRatio*100, s.BaselineRatio*100, s.Rank)
	}
	return output
}

// FormatJSON formats a summary as indented JSON
func FormatJSON(s *models.DailySummary) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatSeconds(secs int64) string {
	d := time.Duration(secs) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

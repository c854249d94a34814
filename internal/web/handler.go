package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/biirving/focus/internal/activity"
	"github.com/biirving/focus/internal/logging"
	"github.com/biirving/focus/internal/models"
	"github.com/biirving/focus/internal/monitor"
	"github.com/biirving/focus/internal/summary"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
)

// Handler serves the read-only status API. Live session data comes from the
// monitor's copy-on-read snapshot; everything else is read from the
// database, so no request can observe a half-updated tick.
type Handler struct {
	log        *logging.Logger
	mon        *monitor.Service
	activities *activity.Repository
	summaries  *summary.Repository
}

func NewHandler(log *logging.Logger, mon *monitor.Service, activities *activity.Repository, summaries *summary.Repository) *Handler {
	return &Handler{
		log:        log,
		mon:        mon,
		activities: activities,
		summaries:  summaries,
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/status", h.handleStatus)
	mux.HandleFunc("/api/activity/recent", h.handleRecentActivity)
	mux.HandleFunc("/api/summary", h.handleSummary)
	mux.HandleFunc("/api/summaries", h.handleSummaries)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.mon.Snapshot())
}

func (h *Handler) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRecentLimit {
			http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.activities.Recent(limit)
	if err != nil {
		h.log.Error("failed to load recent activity", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, entries)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		http.Error(w, "date must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	s, err := h.summaries.ForDate(date)
	if err != nil {
		h.log.Error("failed to load summary", "date", date, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if s == nil {
		http.Error(w, "no summary for date", http.StatusNotFound)
		return
	}
	h.writeJSON(w, s)
}

func (h *Handler) handleSummaries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			http.Error(w, "days must be between 1 and 365", http.StatusBadRequest)
			return
		}
		days = n
	}

	summaries, err := h.summaries.RecentDays(days)
	if err != nil {
		h.log.Error("failed to load summaries", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, summaries)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}

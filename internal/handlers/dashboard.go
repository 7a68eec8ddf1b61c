package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bus-maintenance/internal/config"
	"github.com/ukydev/bus-maintenance/internal/models"
	"github.com/ukydev/bus-maintenance/internal/report"
	"github.com/ukydev/bus-maintenance/internal/simulation"
)

// SnapshotSource provides the current snapshot and regenerates it on demand.
type SnapshotSource interface {
	Current() *models.Snapshot
	Regenerate(ctx context.Context, busCount, daysBack int) (*models.Snapshot, error)
}

// DashboardHandler serves the maintenance tables of the current snapshot
type DashboardHandler struct {
	source      SnapshotSource
	defaultTopN int
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(source SnapshotSource, defaultTopN int) *DashboardHandler {
	return &DashboardHandler{
		source:      source,
		defaultTopN: defaultTopN,
	}
}

// RegenerateRequest is the body of a regeneration request
type RegenerateRequest struct {
	BusCount int `json:"bus_count"`
	DaysBack int `json:"days_back"`
}

// SummaryResponse is the per-bus summary of a snapshot, truncated to top N
type SummaryResponse struct {
	SnapshotID  string              `json:"snapshot_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	BusCount    int                 `json:"bus_count"`
	DaysBack    int                 `json:"days_back"`
	EventCount  int                 `json:"event_count"`
	TotalCost   float64             `json:"total_cost"`
	TopN        int                 `json:"top_n"`
	Rows        []models.BusSummary `json:"rows"`
}

func newSummaryResponse(s *models.Snapshot, topN int) SummaryResponse {
	rows := simulation.Top(s.Summaries, topN)
	return SummaryResponse{
		SnapshotID:  s.ID,
		GeneratedAt: s.GeneratedAt,
		BusCount:    s.BusCount,
		DaysBack:    s.DaysBack,
		EventCount:  len(s.Events),
		TotalCost:   s.TotalCost(),
		TopN:        len(rows),
		Rows:        rows,
	}
}

// Summary returns the top N rows of the current summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, ok := h.current(w)
	if !ok {
		return
	}

	topN, err := h.topN(r, snapshot)
	if err != nil {
		http.Error(w, "Invalid top_n", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, newSummaryResponse(snapshot, topN))
}

// Events returns the full maintenance history of the current snapshot
func (h *DashboardHandler) Events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, ok := h.current(w)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, snapshot.Events)
}

// EventsCSV exports the full maintenance history as CSV
func (h *DashboardHandler) EventsCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, ok := h.current(w)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="maintenance-`+snapshot.ID+`.csv"`)
	if err := report.WriteEventsCSV(w, snapshot.Events); err != nil {
		log.WithError(err).Error("Failed to write events CSV")
	}
}

// Regenerate replaces the current snapshot with a freshly generated one
func (h *DashboardHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req RegenerateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	// Validate input
	if req.BusCount == 0 {
		http.Error(w, "bus_count is required", http.StatusBadRequest)
		return
	}
	if req.BusCount < 0 {
		http.Error(w, "bus_count must be positive", http.StatusBadRequest)
		return
	}
	if req.DaysBack < 0 {
		http.Error(w, "days_back must be positive", http.StatusBadRequest)
		return
	}
	if req.DaysBack == 0 {
		req.DaysBack = config.DefaultDaysBack
	}
	busCount := config.ClampBusCount(req.BusCount)

	snapshot, err := h.source.Regenerate(r.Context(), busCount, req.DaysBack)
	if errors.Is(err, simulation.ErrInvalidArgument) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.WithError(err).Error("Failed to regenerate snapshot")
		http.Error(w, "Failed to regenerate snapshot", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, newSummaryResponse(snapshot, config.ClampTopN(h.defaultTopN, busCount)))
}

// Health reports whether a snapshot is available
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if h.source.Current() == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("NOT_READY"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *DashboardHandler) current(w http.ResponseWriter) (*models.Snapshot, bool) {
	snapshot := h.source.Current()
	if snapshot == nil {
		http.Error(w, "Snapshot not ready", http.StatusServiceUnavailable)
		return nil, false
	}
	return snapshot, true
}

// topN reads the top_n query parameter, clamped to the snapshot's bus count.
func (h *DashboardHandler) topN(r *http.Request, s *models.Snapshot) (int, error) {
	n := h.defaultTopN
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, err
		}
		n = parsed
	}
	return config.ClampTopN(n, len(s.Summaries)), nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

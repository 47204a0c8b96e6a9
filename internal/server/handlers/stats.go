package handlers

import (
	"net/http"
	"time"

	"github.com/openispb/ispbmap/internal/server/response"
)

// StatsResponse summarizes the current catalog snapshot.
type StatsResponse struct {
	Total       int            `json:"total"`
	GeneratedAt time.Time      `json:"generated_at"`
	PerSource   map[string]int `json:"per_source"`
	Rejected    map[string]int `json:"rejected"`
	Duplicates  map[string]int `json:"duplicates"`
	ByType      map[string]int `json:"by_type"`
	ByOrigin    map[string]int `json:"by_origin"`
	ByStatus    map[string]int `json:"by_status"`
}

// HandleStats returns aggregate statistics about the catalog.
// GET /api/v1/stats
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	snapshot := h.catalog.Snapshot()
	meta := snapshot.Metadata()

	stats := StatsResponse{
		Total:       snapshot.Len(),
		GeneratedAt: meta.GeneratedAt,
		PerSource:   meta.PerSource,
		Rejected:    meta.Rejected,
		Duplicates:  meta.Duplicates,
		ByType:      make(map[string]int),
		ByOrigin:    make(map[string]int),
		ByStatus:    make(map[string]int),
	}

	for _, p := range snapshot.List() {
		if p.Type != "" {
			stats.ByType[p.Type]++
		}
		stats.ByOrigin[p.Origin]++
		if p.Status != "" {
			stats.ByStatus[p.Status]++
		}
	}

	response.OK(w, stats)
}

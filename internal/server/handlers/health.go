package handlers

import (
	"net/http"
	"time"

	"github.com/openispb/ispbmap/internal/server/response"
)

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// ReadyResponse reports whether the catalog is populated and serving.
type ReadyResponse struct {
	Status       string    `json:"status"`
	Participants int       `json:"participants"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// HandleHealth reports liveness. It always succeeds while the process runs.
// GET /health
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response.OK(w, HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HandleReady reports readiness. The server is ready once a non-empty
// snapshot has been published.
// GET /ready
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	snapshot := h.catalog.Snapshot()
	if snapshot.Len() == 0 {
		response.ServiceUnavailable(w, "Catalog is empty, waiting for first refresh")
		return
	}

	response.OK(w, ReadyResponse{
		Status:       "ready",
		Participants: snapshot.Len(),
		GeneratedAt:  snapshot.Metadata().GeneratedAt,
	})
}

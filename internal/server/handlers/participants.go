package handlers

import (
	"net/http"

	"github.com/openispb/ispbmap/internal/server/response"
	"github.com/openispb/ispbmap/pkg/errors"
	"github.com/openispb/ispbmap/pkg/sources"
)

// ListResponse wraps the participant list with its total count.
type ListResponse struct {
	Total        int `json:"total"`
	Participants any `json:"participants"`
}

// HandleListParticipants returns the full participant catalog.
// GET /api/v1/participants
func (h *Handlers) HandleListParticipants(w http.ResponseWriter, r *http.Request) {
	snapshot := h.catalog.Snapshot()
	participants := snapshot.List()

	response.OK(w, ListResponse{
		Total:        len(participants),
		Participants: participants,
	})
}

// HandleGetParticipant returns a single participant by ISPB.
// GET /api/v1/participants/{ispb}
//
// The path parameter is normalized the same way source identifiers are, so
// "1" and "00000001" address the same participant.
func (h *Handlers) HandleGetParticipant(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("ispb")

	ispb, ok := sources.CleanISPB(raw)
	if !ok {
		response.ErrorFromType(w, &errors.ValidationError{
			Field:   "ispb",
			Value:   raw,
			Message: "must contain between 1 and 8 digits",
		})
		return
	}

	participant, found := h.catalog.Snapshot().ByISPB(ispb)
	if !found {
		response.ErrorFromType(w, errors.NewNotFoundError("participant", ispb))
		return
	}

	response.OK(w, participant)
}

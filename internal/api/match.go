package api

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"

	"github.com/medmatch/medmatch/internal/matching"
	"github.com/medmatch/medmatch/pkg/donation"
	"github.com/medmatch/medmatch/pkg/scoring"
)

// matchResponse is the body of POST /match, the shape the dashboard reads.
type matchResponse struct {
	Matches []scoring.RankedResult `json:"matches"`
}

// matchResponseV1 is the body of POST /api/v1/match.
type matchResponseV1 struct {
	RunID   string                 `json:"run_id"`
	Matches []scoring.RankedResult `json:"matches"`
	Summary scoring.Summary        `json:"summary"`
}

// handleMatch handles POST /match.
func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	run, ok := h.rank(w, r)
	if !ok {
		return
	}
	w.Header().Set(RunIDHeader, run.ID)
	writeJSON(w, http.StatusOK, matchResponse{Matches: run.Matches})
}

// handleMatchV1 handles POST /api/v1/match.
func (h *Handler) handleMatchV1(w http.ResponseWriter, r *http.Request) {
	run, ok := h.rank(w, r)
	if !ok {
		return
	}
	w.Header().Set(RunIDHeader, run.ID)
	writeJSON(w, http.StatusOK, matchResponseV1{
		RunID:   run.ID,
		Matches: run.Matches,
		Summary: run.Summary,
	})
}

// rank decodes the request body and ranks it. On failure it writes the
// error response and returns false.
func (h *Handler) rank(w http.ResponseWriter, r *http.Request) (*matching.Run, bool) {
	var body io.ReadCloser = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	// Support gzip-compressed request bodies
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid gzip body: "+err.Error())
			return nil, false
		}
		defer gz.Close()
		body = http.MaxBytesReader(w, gz, h.maxBodyBytes)
	}

	req, err := donation.DecodeMatchRequest(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, donation.ErrMissingProfile), errors.Is(err, donation.ErrMissingDonations):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		}
		return nil, false
	}

	run, err := h.svc.Rank(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	h.cache.Put(run.ID, run)
	return run, true
}

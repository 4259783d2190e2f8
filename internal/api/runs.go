package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/medmatch/medmatch/internal/matching"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// handleListRuns handles GET /api/v1/runs.
func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !h.svc.HistoryEnabled() {
		writeError(w, http.StatusServiceUnavailable, matching.ErrHistoryDisabled.Error())
		return
	}

	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxRunsLimit)
	}

	runs, err := h.svc.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetRun handles GET /api/v1/runs/{runID}, checking the cache first,
// then falling back to the archive.
func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runID")

	if run := h.cache.Get(runID); run != nil {
		writeJSON(w, http.StatusOK, run)
		return
	}

	run, err := h.svc.GetRun(r.Context(), runID)
	if errors.Is(err, matching.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if errors.Is(err, matching.ErrInvalidRunID) {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}

	h.cache.Put(runID, run)
	writeJSON(w, http.StatusOK, run)
}

// handleHealth handles GET /healthz.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

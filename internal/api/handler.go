// Package api implements the medmatch REST API: the matcher endpoint the NGO
// dashboard calls plus read endpoints over archived runs and run history.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/medmatch/medmatch/internal/matching"
	"github.com/medmatch/medmatch/internal/observability"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes = 10 << 20

// RunIDHeader carries the run ID on matcher responses.
const RunIDHeader = "X-Medmatch-Run-ID"

// Handler is the top-level API handler for the medmatch daemon.
type Handler struct {
	svc          *matching.Service
	cache        *RunCache
	metrics      *observability.Metrics
	maxBodyBytes int64
}

// NewHandler creates a new API handler. A nil cache gets a default-sized
// one; nil metrics disables the /metrics route.
func NewHandler(svc *matching.Service, cache *RunCache, metrics *observability.Metrics, maxBodyBytes int64) *Handler {
	if cache == nil {
		cache = NewRunCache(0)
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		svc:          svc,
		cache:        cache,
		metrics:      metrics,
		maxBodyBytes: maxBodyBytes,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Matcher endpoints
	mux.HandleFunc("POST /match", h.handleMatch)
	mux.HandleFunc("POST /api/v1/match", h.handleMatchV1)

	// Read endpoints
	mux.HandleFunc("GET /api/v1/runs", h.handleListRuns)
	mux.HandleFunc("GET /api/v1/runs/{runID}", h.handleGetRun)

	// Operations
	mux.HandleFunc("GET /healthz", h.handleHealth)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

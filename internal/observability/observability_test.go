package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"xyzzy", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogConfig{Level: "warn", Format: "json"})

	logger.Info("dropped")
	logger.Warn("kept", "run_id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "abc", entry["run_id"])
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogConfig{Level: "debug"})

	logger.Debug("hello", "key", "value")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "key=value")
}

func TestInitLoggerSetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := InitLogger(LogConfig{Level: "info", Format: "json"})
	assert.Equal(t, logger.Handler(), slog.Default().Handler())
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.RunsTotal.Inc()
	m.SideEffectFailures.WithLabelValues("archive").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SideEffectFailures.WithLabelValues("archive")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "medmatch_runs_total 1")
	assert.Contains(t, body, `medmatch_run_side_effect_failures_total{effect="archive"} 2`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNewMetricsIsolated(t *testing.T) {
	// Each instance owns its registry, so building two does not panic on
	// duplicate registration.
	a, b := NewMetrics(), NewMetrics()
	a.RunsTotal.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RunsTotal))
}

package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal          prometheus.Counter
	DonationsScored    prometheus.Counter
	RecommendedTotal   prometheus.Counter
	FlaggedTotal       prometheus.Counter
	RankDuration       prometheus.Histogram
	SideEffectFailures *prometheus.CounterVec // by effect: archive, history, events

	HTTPRequests *prometheus.CounterVec   // by method, route, status
	HTTPDuration *prometheus.HistogramVec // by method, route
}

// NewMetrics registers the medmatch collectors, plus the Go runtime and
// process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medmatch_runs_total",
			Help: "Ranked runs served.",
		}),
		DonationsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medmatch_donations_scored_total",
			Help: "Donations scored across all runs.",
		}),
		RecommendedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medmatch_donations_recommended_total",
			Help: "Donations marked as recommended.",
		}),
		FlaggedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medmatch_donations_flagged_total",
			Help: "Donations with a fraud score above zero.",
		}),
		RankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "medmatch_rank_duration_seconds",
			Help:    "Time spent scoring and ranking one request.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		SideEffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "medmatch_run_side_effect_failures_total",
			Help: "Failed archive, history or event writes after a ranking.",
		}, []string{"effect"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "medmatch_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medmatch_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RunsTotal,
		m.DonationsScored,
		m.RecommendedTotal,
		m.FlaggedTotal,
		m.RankDuration,
		m.SideEffectFailures,
		m.HTTPRequests,
		m.HTTPDuration,
	)

	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

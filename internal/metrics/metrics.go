// Package metrics exposes portal counters on a private Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the portal collectors. It satisfies frontpage.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	degraded       *prometheus.CounterVec
	fallbacks      *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec
	leadChanges    *prometheus.CounterVec
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.renders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "renders_total",
		Help:      "Pages rendered by page kind and outcome",
	}, []string{"page", "status"})
	m.renderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portal",
		Name:      "render_duration_seconds",
		Help:      "Time spent fetching and rendering a page",
		Buckets:   prometheus.DefBuckets,
	}, []string{"page"})
	m.degraded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "degraded_events_total",
		Help:      "Events rendered with the placeholder topic",
	}, []string{"locale"})
	m.fallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "recency_fallback_total",
		Help:      "Renders whose lead was chosen from the full pool",
	}, []string{"locale"})
	m.upstreamErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "upstream_errors_total",
		Help:      "Failed upstream API calls by operation",
	}, []string{"op"})
	m.leadChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Name:      "lead_changes_total",
		Help:      "Lead changes detected by the watcher",
	}, []string{"locale"})

	m.registry.MustRegister(
		m.renders, m.renderDuration, m.degraded,
		m.fallbacks, m.upstreamErrors, m.leadChanges,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecencyFallback counts a render that fell back to the full pool.
func (m *Metrics) RecencyFallback(locale string) {
	m.fallbacks.WithLabelValues(locale).Inc()
}

// DegradedEvents counts events that needed the placeholder topic.
func (m *Metrics) DegradedEvents(locale string, n int) {
	if n <= 0 {
		return
	}
	m.degraded.WithLabelValues(locale).Add(float64(n))
}

// UpstreamError counts a failed upstream call.
func (m *Metrics) UpstreamError(op string) {
	m.upstreamErrors.WithLabelValues(op).Inc()
}

// LeadChanged counts a detected lead change.
func (m *Metrics) LeadChanged(locale string) {
	m.leadChanges.WithLabelValues(locale).Inc()
}

// ObserveRender records one render of page. status is "ok" or "error".
func (m *Metrics) ObserveRender(page, status string, elapsed time.Duration) {
	m.renders.WithLabelValues(page, status).Inc()
	m.renderDuration.WithLabelValues(page).Observe(elapsed.Seconds())
}

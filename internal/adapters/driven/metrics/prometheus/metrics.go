// Package prometheus provides an EngineMetrics recorder backed by
// Prometheus collectors.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.EngineMetrics = (*Recorder)(nil)

const namespace = "promptdeck"

// Recorder owns its registry so several recorders can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	// rebuildsTotal counts index rebuilds.
	rebuildsTotal prometheus.Counter

	// rebuildDuration observes rebuild latency in seconds.
	rebuildDuration prometheus.Histogram

	// indexedRecords is the size of the current index.
	indexedRecords prometheus.Gauge

	// skippedTotal counts records dropped at rebuild.
	skippedTotal prometheus.Counter

	// sessionsOpened counts match sessions.
	sessionsOpened prometheus.Counter

	// sessionsClosed counts closed sessions.
	// Labels:
	//   - reason: commit, empty, cancel, invalidated, retriggered
	sessionsClosed *prometheus.CounterVec

	// candidates observes candidate list sizes.
	candidates prometheus.Histogram

	// expansions counts submit-time expansions.
	// Labels:
	//   - matched: "true" or "false"
	expansions *prometheus.CounterVec
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rebuildsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_rebuilds_total",
			Help:      "Total number of command index rebuilds",
		}),
		rebuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_rebuild_duration_seconds",
			Help:      "Duration of command index rebuilds in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		indexedRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_records",
			Help:      "Number of records in the current command index",
		}),
		skippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_skipped_records_total",
			Help:      "Total number of records skipped at rebuild",
		}),
		sessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Total number of match sessions opened",
		}),
		sessionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Total number of match sessions closed, by reason",
		}, []string{"reason"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidates",
			Help:      "Size of computed candidate lists",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		expansions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expansions_total",
			Help:      "Total number of submit-time expansions",
		}, []string{"matched"}),
	}

	r.registry.MustRegister(
		r.rebuildsTotal,
		r.rebuildDuration,
		r.indexedRecords,
		r.skippedTotal,
		r.sessionsOpened,
		r.sessionsClosed,
		r.candidates,
		r.expansions,
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// IndexRebuilt records a rebuild.
func (r *Recorder) IndexRebuilt(indexed, skipped int, took time.Duration) {
	r.rebuildsTotal.Inc()
	r.rebuildDuration.Observe(took.Seconds())
	r.indexedRecords.Set(float64(indexed))
	r.skippedTotal.Add(float64(skipped))
}

// SessionOpened records a new session.
func (r *Recorder) SessionOpened() {
	r.sessionsOpened.Inc()
}

// SessionClosed records a closed session.
func (r *Recorder) SessionClosed(reason string) {
	r.sessionsClosed.WithLabelValues(reason).Inc()
}

// CandidatesComputed records a candidate list size.
func (r *Recorder) CandidatesComputed(n int) {
	r.candidates.Observe(float64(n))
}

// Expanded records an expansion attempt.
func (r *Recorder) Expanded(matched bool) {
	r.expansions.WithLabelValues(strconv.FormatBool(matched)).Inc()
}

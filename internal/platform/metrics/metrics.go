// Package metrics provides operational metrics collection.
//
// Counters are registered on a private Prometheus registry so tests can build
// independent instances, and are exposed through Handler for scraping.
//
// # Metric Families
//
//   - mvm_rounds_generated_total{algorithm,mode}
//   - mvm_round_hits_total{mode}
//   - mvm_exports_total{kind}
//   - mvm_history_clears_total
//   - mvm_http_requests_total{method,status}
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mvm"

// Metrics holds the application counters.
type Metrics struct {
	registry *prometheus.Registry

	RoundsGenerated *prometheus.CounterVec
	RoundHits       *prometheus.CounterVec
	Exports         *prometheus.CounterVec
	HistoryClears   prometheus.Counter
	HTTPRequests    *prometheus.CounterVec
}

// New registers all counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RoundsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_generated_total",
			Help:      "Numbers generated, by algorithm and game mode.",
		}, []string{"algorithm", "mode"}),
		RoundHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "round_hits_total",
			Help:      "Predictions that hit, by game mode.",
		}, []string{"mode"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "CSV exports, by kind (file or download).",
		}, []string{"kind"}),
		HistoryClears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_clears_total",
			Help:      "Times the stored round history was deleted.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method and status code.",
		}, []string{"method", "status"}),
	}
	m.registry.MustRegister(
		m.RoundsGenerated,
		m.RoundHits,
		m.Exports,
		m.HistoryClears,
		m.HTTPRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRound records one generated number.
func (m *Metrics) ObserveRound(algorithm, mode string, hit bool) {
	if m == nil {
		return
	}
	m.RoundsGenerated.WithLabelValues(algorithm, mode).Inc()
	if hit {
		m.RoundHits.WithLabelValues(mode).Inc()
	}
}

// ObserveExport records one CSV export.
func (m *Metrics) ObserveExport(kind string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(kind).Inc()
}

// ObserveClear records one history deletion.
func (m *Metrics) ObserveClear() {
	if m == nil {
		return
	}
	m.HistoryClears.Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

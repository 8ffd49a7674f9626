package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/core"
	"github.com/poiesic/partkb/search"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	matches        prometheus.Histogram
	stageRemaining *prometheus.HistogramVec

	catalogParts *prometheus.GaugeVec
	catalogTerms prometheus.Gauge
	rebuilds     *prometheus.CounterVec
	lastRebuild  prometheus.Gauge
}

// NewMetrics registers the server collectors on registry.
// A nil registry gets a fresh one with Go and process collectors.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	counts := prometheus.ExponentialBuckets(1, 2, 10)
	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "partkb_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "partkb_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		matches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "partkb_recommend_matches",
			Help:    "Number of parts returned per recommendation",
			Buckets: counts,
		}),
		stageRemaining: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "partkb_recommend_stage_remaining",
			Help:    "Candidates left after each filter stage",
			Buckets: counts,
		}, []string{"stage"}),
		catalogParts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "partkb_catalog_parts",
			Help: "Parts in the served catalog by category",
		}, []string{"category"}),
		catalogTerms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "partkb_catalog_terms",
			Help: "Vocabulary terms in the served catalog",
		}),
		rebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "partkb_rebuilds_total",
			Help: "Catalog rebuilds triggered by source changes",
		}, []string{"result"}),
		lastRebuild: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "partkb_last_rebuild_timestamp_seconds",
			Help: "Unix time of the last successful catalog swap",
		}),
	}
	registry.MustRegister(
		m.requests, m.duration,
		m.matches, m.stageRemaining,
		m.catalogParts, m.catalogTerms, m.rebuilds, m.lastRebuild,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) observeRequest(route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeCatalog(cat *catalog.Catalog) {
	counts := cat.CountByCategory()
	for _, c := range core.Categories {
		m.catalogParts.WithLabelValues(string(c)).Set(float64(counts[c]))
	}
	m.catalogTerms.Set(float64(len(cat.Terms())))
	m.lastRebuild.SetToCurrentTime()
}

func (m *Metrics) observeRebuild(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.rebuilds.WithLabelValues(result).Inc()
}

// searchMonitor records each search stage on the metrics.
type searchMonitor struct {
	metrics *Metrics
}

var _ search.SearchMonitor = (*searchMonitor)(nil)

func (s *searchMonitor) Start(_ core.Query) {}

func (s *searchMonitor) AfterStage(stage search.Stage, remaining int) {
	s.metrics.stageRemaining.WithLabelValues(string(stage)).Observe(float64(remaining))
}

func (s *searchMonitor) Finish(matches []core.Match) {
	s.metrics.matches.Observe(float64(len(matches)))
}

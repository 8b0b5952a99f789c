package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	parseTotal    *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	parseInFlight prometheus.Gauge

	feedFetchTotal *prometheus.CounterVec
	ingestedTotal  *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	parseTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jrb",
			Subsystem: "worker",
			Name:      "resume_parse_total",
			Help:      "Total parsed resumes by status.",
		},
		[]string{"service", "status"},
	)
	parseDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jrb",
			Subsystem: "worker",
			Name:      "resume_parse_duration_seconds",
			Help:      "Resume parse duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	parseInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jrb",
			Subsystem: "worker",
			Name:      "resume_parse_in_flight",
			Help:      "Number of in-flight resume parse tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	feedFetchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jrb",
			Subsystem: "poller",
			Name:      "feed_fetch_total",
			Help:      "Total feed fetch attempts by status.",
		},
		[]string{"service", "status"},
	)
	ingestedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jrb",
			Subsystem: "poller",
			Name:      "jobs_ingested_total",
			Help:      "Total ingested postings by result.",
		},
		[]string{"service", "result"},
	)

	registry.MustRegister(parseTotal, parseDuration, parseInFlight, feedFetchTotal, ingestedTotal)

	return &WorkerMetrics{
		registry:       registry,
		parseTotal:     parseTotal,
		parseDuration:  parseDuration,
		parseInFlight:  parseInFlight,
		feedFetchTotal: feedFetchTotal,
		ingestedTotal:  ingestedTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartParse() {
	m.parseInFlight.Inc()
}

func (m *WorkerMetrics) FinishParse(service, status string, duration time.Duration) {
	m.parseInFlight.Dec()
	if status == "" {
		status = "unknown"
	}
	m.parseTotal.WithLabelValues(service, status).Inc()
	m.parseDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) RecordFeedFetch(service, status string) {
	if status == "" {
		status = "unknown"
	}
	m.feedFetchTotal.WithLabelValues(service, status).Inc()
}

func (m *WorkerMetrics) RecordIngested(service, result string, count int) {
	if count <= 0 {
		return
	}
	m.ingestedTotal.WithLabelValues(service, result).Add(float64(count))
}

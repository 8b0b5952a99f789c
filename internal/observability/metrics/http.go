package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	assessmentsTotal   *prometheus.CounterVec
	assessmentDuration *prometheus.HistogramVec
	quotaDeniedTotal   *prometheus.CounterVec
	resumeUploadsTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jrb",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jrb",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jrb",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	assessmentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jrb",
			Subsystem: "assessment",
			Name:      "completed_total",
			Help:      "Total finalized assessments by outcome.",
		},
		[]string{"service", "outcome"},
	)
	assessmentDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jrb",
			Subsystem: "assessment",
			Name:      "duration_seconds",
			Help:      "End to end assessment duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "outcome"},
	)
	quotaDeniedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jrb",
			Subsystem: "assessment",
			Name:      "quota_denied_total",
			Help:      "Total assessment requests denied by the daily quota.",
		},
		[]string{"service"},
	)
	resumeUploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jrb",
			Subsystem: "resume",
			Name:      "uploads_total",
			Help:      "Total resume uploads by status.",
		},
		[]string{"service", "status"},
	)
	registry.MustRegister(
		requestTotal, requestDuration, requestInFlight,
		assessmentsTotal, assessmentDuration, quotaDeniedTotal,
		resumeUploadsTotal,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		assessmentsTotal:   assessmentsTotal,
		assessmentDuration: assessmentDuration,
		quotaDeniedTotal:   quotaDeniedTotal,
		resumeUploadsTotal: resumeUploadsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses id-bearing paths so label cardinality stays flat.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/resumes/") && strings.HasSuffix(path, "/assessments"):
		return "/v1/resumes/{resume_id}/assessments"
	case strings.HasPrefix(path, "/v1/resumes/"):
		return "/v1/resumes/{resume_id}"
	case strings.HasPrefix(path, "/v1/jobs/") && path != "/v1/jobs/export":
		return "/v1/jobs/{job_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordAssessment(service, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.assessmentsTotal.WithLabelValues(service, outcome).Inc()
	m.assessmentDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordQuotaDenied(service string) {
	m.quotaDeniedTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordResumeUpload(service, status string) {
	if status == "" {
		status = "unknown"
	}
	m.resumeUploadsTotal.WithLabelValues(service, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}

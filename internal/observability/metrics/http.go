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

// HTTPServerMetrics carries the API-side metric families: generic HTTP
// server metrics plus RAG pipeline and audit export counters.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	ragRequestsTotal     *prometheus.CounterVec
	ragModeRequestsTotal *prometheus.CounterVec
	ragRetrievalHitTotal *prometheus.CounterVec
	ragNoContextTotal    *prometheus.CounterVec
	ragRetrievedChunks   *prometheus.HistogramVec
	ragDuration          *prometheus.HistogramVec
	uploadsTotal         *prometheus.CounterVec
	auditExportsTotal    *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medreg",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medreg",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "medreg",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	ragRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medreg",
			Subsystem: "rag",
			Name:      "requests_total",
			Help:      "Total successful regulatory query requests.",
		},
		[]string{"service"},
	)
	ragModeRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medreg",
			Subsystem: "rag",
			Name:      "mode_requests_total",
			Help:      "Total successful regulatory queries by retrieval mode.",
		},
		[]string{"service", "mode"},
	)
	ragRetrievalHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medreg",
			Subsystem: "rag",
			Name:      "retrieval_hit_total",
			Help:      "Total regulatory queries with at least one retrieved source.",
		},
		[]string{"service"},
	)
	ragNoContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medreg",
			Subsystem: "rag",
			Name:      "no_context_total",
			Help:      "Total regulatory queries without retrieved sources.",
		},
		[]string{"service"},
	)
	ragRetrievedChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medreg",
			Subsystem: "rag",
			Name:      "retrieved_chunks",
			Help:      "Distribution of retrieved chunks per successful query.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	ragDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medreg",
			Subsystem: "rag",
			Name:      "duration_seconds",
			Help:      "Regulatory query execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medreg",
			Subsystem: "ingest",
			Name:      "uploads_total",
			Help:      "Total document uploads by status.",
		},
		[]string{"service", "status"},
	)
	auditExportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medreg",
			Subsystem: "audit",
			Name:      "exports_total",
			Help:      "Total audit trail exports by format.",
		},
		[]string{"service", "format"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		ragRequestsTotal,
		ragModeRequestsTotal,
		ragRetrievalHitTotal,
		ragNoContextTotal,
		ragRetrievedChunks,
		ragDuration,
		uploadsTotal,
		auditExportsTotal,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		ragRequestsTotal:     ragRequestsTotal,
		ragModeRequestsTotal: ragModeRequestsTotal,
		ragRetrievalHitTotal: ragRetrievalHitTotal,
		ragNoContextTotal:    ragNoContextTotal,
		ragRetrievedChunks:   ragRetrievedChunks,
		ragDuration:          ragDuration,
		uploadsTotal:         uploadsTotal,
		auditExportsTotal:    auditExportsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &metricsRecorder{
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

// normalizePath keeps document IDs out of the path label cardinality.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

// RecordQuery counts one answered regulatory question. Mode is the
// retrieval mode reported on the answer (rerank, local_fallback, vector).
func (m *HTTPServerMetrics) RecordQuery(service, mode string, sourceCount int, duration time.Duration) {
	m.ragRequestsTotal.WithLabelValues(service).Inc()
	m.ragRetrievedChunks.WithLabelValues(service).Observe(float64(sourceCount))
	m.ragDuration.WithLabelValues(service).Observe(duration.Seconds())

	if mode == "" {
		mode = "unknown"
	}
	m.ragModeRequestsTotal.WithLabelValues(service, mode).Inc()

	if sourceCount > 0 {
		m.ragRetrievalHitTotal.WithLabelValues(service).Inc()
		return
	}
	m.ragNoContextTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordUpload(service string, err error) {
	status := "accepted"
	if err != nil {
		status = "error"
	}
	m.uploadsTotal.WithLabelValues(service, status).Inc()
}

func (m *HTTPServerMetrics) RecordAuditExport(service, format string) {
	m.auditExportsTotal.WithLabelValues(service, format).Inc()
}

type metricsRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *metricsRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *metricsRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *metricsRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *metricsRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}

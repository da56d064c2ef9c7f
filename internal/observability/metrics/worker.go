package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics carries the processing-side metric families.
type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal      *prometheus.CounterVec
	processDuration   *prometheus.HistogramVec
	processInFlight   prometheus.Gauge
	queueLag          *prometheus.HistogramVec
	chunksPerDocument *prometheus.HistogramVec
	pagesPerDocument  *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medreg",
			Subsystem: "worker",
			Name:      "document_process_total",
			Help:      "Total processed documents by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medreg",
			Subsystem: "worker",
			Name:      "document_process_duration_seconds",
			Help:      "Document processing duration in seconds by status.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "medreg",
			Subsystem: "worker",
			Name:      "document_process_in_flight",
			Help:      "Number of in-flight document processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medreg",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between document upload and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	chunksPerDocument := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medreg",
			Subsystem: "worker",
			Name:      "chunks_per_document",
			Help:      "Distribution of retrieval chunks produced per document.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"service", "parser"},
	)
	pagesPerDocument := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medreg",
			Subsystem: "worker",
			Name:      "pages_per_document",
			Help:      "Distribution of extracted pages per document.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		processTotal,
		processDuration,
		processInFlight,
		queueLag,
		chunksPerDocument,
		pagesPerDocument,
	)

	return &WorkerMetrics{
		registry:          registry,
		processTotal:      processTotal,
		processDuration:   processDuration,
		processInFlight:   processInFlight,
		queueLag:          queueLag,
		chunksPerDocument: chunksPerDocument,
		pagesPerDocument:  pagesPerDocument,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartDocument() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishDocument(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

// ObserveDocumentShape records chunk and page counts after a successful run.
// Parser labels the structural profile so guidance-vs-regulation chunk
// yields stay comparable.
func (m *WorkerMetrics) ObserveDocumentShape(service, parser string, pages, chunks int) {
	if parser == "" {
		parser = "unknown"
	}
	m.chunksPerDocument.WithLabelValues(service, parser).Observe(float64(chunks))
	m.pagesPerDocument.WithLabelValues(service).Observe(float64(pages))
}

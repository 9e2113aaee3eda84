package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	pagesClassified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pagereorder",
			Name:      "pages_classified_total",
			Help:      "Pages by final classification provenance (text, ocr, manual, none)",
		},
		[]string{"provenance"},
	)

	ocrAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pagereorder",
			Name:      "ocr_attempts_total",
			Help:      "OCR attempts by outcome (matched, no_match, timeout, error)",
		},
		[]string{"outcome"},
	)

	ocrLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pagereorder",
			Name:      "ocr_attempt_duration_seconds",
			Help:      "Duration of a single page OCR attempt",
			Buckets:   prometheus.DefBuckets,
		},
	)

	stageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pagereorder",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	movesApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pagereorder",
			Name:      "moves_applied_total",
			Help:      "Move-list entries applied (self-moves excluded)",
		},
	)

	documentsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pagereorder",
			Name:      "documents_written_total",
			Help:      "Reordered documents written by mode (sort, move)",
		},
		[]string{"mode"},
	)
)

func init() {
	registry.MustRegister(pagesClassified, ocrAttempts, ocrLatency, stageLatency, movesApplied, documentsWritten)
}

// Gatherer exposes the collectors, e.g. for a push or textfile export.
func Gatherer() prometheus.Gatherer { return registry }

// WriteTextfile dumps all metrics in the Prometheus text format, suitable
// for the node_exporter textfile collector.
func WriteTextfile(path string) error { return prometheus.WriteToTextfile(path, registry) }

func IncClassified(provenance string)            { pagesClassified.WithLabelValues(provenance).Inc() }
func AddMovesApplied(n int)                      { movesApplied.Add(float64(n)) }
func IncDocumentWritten(mode string)             { documentsWritten.WithLabelValues(mode).Inc() }
func ObserveStage(stage string, d time.Duration) { stageLatency.WithLabelValues(stage).Observe(d.Seconds()) }

func ObserveOCR(outcome string, d time.Duration) {
	ocrAttempts.WithLabelValues(outcome).Inc()
	ocrLatency.Observe(d.Seconds())
}

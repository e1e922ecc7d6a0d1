package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments the pipeline. All collectors are registered on the
// registerer passed to NewMetrics, so tests can use isolated registries.
type Metrics struct {
	documents     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	cacheHits     prometheus.Counter
	ocrPages      prometheus.Counter
	batchSize     prometheus.Histogram
}

// NewMetrics creates and registers the pipeline collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invoscan",
			Name:      "documents_total",
			Help:      "Processed documents by outcome.",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "invoscan",
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent per pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"stage"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "invoscan",
			Name:      "cache_hits_total",
			Help:      "Page-level cache hits across all documents.",
		}),
		ocrPages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "invoscan",
			Name:      "ocr_pages_total",
			Help:      "Pages that required the OCR fallback.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "invoscan",
			Name:      "batch_size",
			Help:      "Documents per batch invocation.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.documents, m.stageDuration, m.cacheHits, m.ocrPages, m.batchSize)
	}
	return m
}

func (m *Metrics) observeStage(stage Stage, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

func (m *Metrics) countDocument(outcome string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) addCacheHits(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.cacheHits.Add(float64(n))
}

func (m *Metrics) addOCRPages(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ocrPages.Add(float64(n))
}

func (m *Metrics) observeBatch(size int) {
	if m == nil {
		return
	}
	m.batchSize.Observe(float64(size))
}

package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry            *prometheus.Registry
	PagesFetchedTotal   prometheus.Counter
	ExpansionsTotal     prometheus.Counter
	ItemsExtractedTotal prometheus.Counter
	MaterializeDuration prometheus.Histogram
	ErrorsTotal         *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pagesFetched := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_pages_fetched_total",
			Help: "Total listing pages fetched by the scraper.",
		},
	)
	expansions := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_expansions_total",
			Help: "Total load-more activations across all pages.",
		},
	)
	itemsExtracted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_items_extracted_total",
			Help: "Total number of product cards extracted.",
		},
	)
	materializeDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_materialize_duration_seconds",
			Help:    "Time spent fully expanding one listing page.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of scraper errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(pagesFetched, expansions, itemsExtracted, materializeDuration, errorsTotal)

	return &Metrics{
		Registry:            registry,
		PagesFetchedTotal:   pagesFetched,
		ExpansionsTotal:     expansions,
		ItemsExtractedTotal: itemsExtracted,
		MaterializeDuration: materializeDuration,
		ErrorsTotal:         errorsTotal,
	}
}

// IncPage increments the fetched pages counter.
func (m *Metrics) IncPage() {
	if m == nil {
		return
	}
	m.PagesFetchedTotal.Inc()
}

// IncExpansion increments the load-more activation counter.
func (m *Metrics) IncExpansion() {
	if m == nil {
		return
	}
	m.ExpansionsTotal.Inc()
}

// AddItems adds to the extracted items counter.
func (m *Metrics) AddItems(n int) {
	if m == nil {
		return
	}
	m.ItemsExtractedTotal.Add(float64(n))
}

// ObserveMaterialize records how long one page took to fully expand.
func (m *Metrics) ObserveMaterialize(d time.Duration) {
	if m == nil {
		return
	}
	m.MaterializeDuration.Observe(d.Seconds())
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

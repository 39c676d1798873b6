// Package metrics provides Prometheus metrics for howmuch-apple.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysisTotal counts price-analysis fetches by analyzer mode and outcome.
	AnalysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "howmuch",
			Name:      "analysis_total",
			Help:      "Total number of price-analysis fetches",
		},
		[]string{"mode", "outcome"},
	)

	// AnalysisDuration measures fetch latency.
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "howmuch",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of price-analysis fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// StaleResponses counts results dropped because the requester went away.
	StaleResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "howmuch",
			Name:      "stale_responses_total",
			Help:      "Price-analysis results discarded after the initiating request ended",
		},
	)

	// StaticDataLoaded is 1 when a static dataset loaded, 0 when it failed.
	StaticDataLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "howmuch",
			Name:      "static_data_loaded",
			Help:      "Static dataset load status (1 = loaded, 0 = failed)",
		},
		[]string{"dataset"},
	)

	// ListingsImported counts rows written by the import command.
	ListingsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "howmuch",
			Name:      "listings_imported_total",
			Help:      "Listings processed by the importer",
		},
		[]string{"result"},
	)
)

// RecordAnalysis records one fetch.
func RecordAnalysis(mode, outcome string, seconds float64) {
	AnalysisTotal.WithLabelValues(mode, outcome).Inc()
	AnalysisDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordStale records one dropped result.
func RecordStale() {
	StaleResponses.Inc()
}

// SetStaticLoaded records the load status of a static dataset.
func SetStaticLoaded(dataset string, ok bool) {
	v := 0.0
	if ok {
		v = 1
	}
	StaticDataLoaded.WithLabelValues(dataset).Set(v)
}

// RecordImport records importer results ("stored" or "dropped").
func RecordImport(result string, n int) {
	ListingsImported.WithLabelValues(result).Add(float64(n))
}

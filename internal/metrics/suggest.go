package metrics

import "github.com/prometheus/client_golang/prometheus"

// Suggestion Prometheus metrics.
var (
	SuggestRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "suggestd",
			Name:      "suggest_requests_total",
			Help:      "Total number of suggestion requests",
		},
		[]string{"index", "status"},
	)

	SuggestRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "suggestd",
			Name:      "suggest_request_duration_seconds",
			Help:      "Suggestion request duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"index"},
	)

	SuggestHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "suggestd",
			Name:      "suggest_hits",
			Help:      "Number of suggestions returned per request",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 25, 50},
		},
		[]string{"index"},
	)

	SuggestEmptyResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "suggestd",
			Name:      "suggest_empty_results_total",
			Help:      "Suggestion requests that returned no suggestions",
		},
		[]string{"index"},
	)

	DocumentsUpsertedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "suggestd",
			Name:      "documents_upserted_total",
			Help:      "Total number of documents written to suggestion indexes",
		},
		[]string{"index"},
	)
)

var suggestMetricsRegistered bool

// RegisterSuggestMetrics registers Prometheus suggestion metrics. Must be called once from main.
func RegisterSuggestMetrics() {
	if suggestMetricsRegistered {
		return
	}
	prometheus.MustRegister(SuggestRequestsTotal)
	prometheus.MustRegister(SuggestRequestDuration)
	prometheus.MustRegister(SuggestHits)
	prometheus.MustRegister(SuggestEmptyResultsTotal)
	prometheus.MustRegister(DocumentsUpsertedTotal)
	suggestMetricsRegistered = true
}


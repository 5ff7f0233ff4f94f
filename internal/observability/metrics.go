package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// feasibility analysis service.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec // labels: outcome={completed,address_not_found,parcel_not_found,error}
	AnalysisDuration prometheus.Histogram
	StageDuration    *prometheus.HistogramVec // labels: stage={geocode,locate,slope,hazards,narrative}

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Narrative generation metrics.
	NarrativeRequests *prometheus.CounterVec // labels: kind={location,slope,report,chat}, outcome={success,degraded}
	NarrativeDuration prometheus.Histogram

	// Reference data and session metrics.
	LayerFeatures  *prometheus.GaugeVec // label: layer
	SessionsActive prometheus.Gauge
	ChatMessages   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.StageDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.NarrativeRequests,
		m.NarrativeDuration,
		m.LayerFeatures,
		m.SessionsActive,
		m.ChatMessages,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feasibility",
			Name:      "analyses_total",
			Help:      "Analysis requests by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "feasibility",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete analysis pipeline run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "feasibility",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feasibility",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feasibility",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		NarrativeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feasibility",
			Name:      "narrative_requests_total",
			Help:      "Narrative generation requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		NarrativeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "feasibility",
			Name:      "narrative_duration_seconds",
			Help:      "Text generation request duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LayerFeatures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "feasibility",
			Name:      "layer_features",
			Help:      "Feature count per loaded reference layer.",
		}, []string{"layer"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "feasibility",
			Name:      "sessions_active",
			Help:      "Number of live analysis sessions.",
		}),
		ChatMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feasibility",
			Name:      "chat_messages_total",
			Help:      "Total report chat exchanges across all sessions.",
		}),
	}
}

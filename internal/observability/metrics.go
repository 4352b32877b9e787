package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sunset"

// Metrics holds the Prometheus counters, histograms, and gauges for the sunset service.
type Metrics struct {
	ForecastRequests  *prometheus.CounterVec // labels: outcome={success,error}
	EstimateRequests  prometheus.Counter
	ScoreDistribution prometheus.Histogram

	// Upstream weather API metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={forecast,air_quality}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint
	ForecastCache    *prometheus.CounterVec   // labels: result={hit,miss}

	// Publishing metrics.
	PublishErrors    prometheus.Counter
	PublishedEvents  prometheus.Counter
	PublisherEnabled prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_requests_total",
			Help:      "Sunset forecast computations by outcome.",
		}, []string{"outcome"}),
		EstimateRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimate_requests_total",
			Help:      "Ad-hoc score estimates computed from caller-supplied readings.",
		}),
		ScoreDistribution: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Distribution of finalized sunset scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Weather API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Weather API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		ForecastCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_cache_total",
			Help:      "Hourly forecast cache lookups by result.",
		}, []string{"result"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish a computed forecast.",
		}),
		PublishedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "published_events_total",
			Help:      "Computed forecasts published to the sink topic.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publisher_enabled",
			Help:      "1 when forecast publishing is enabled, 0 otherwise.",
		}),
	}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ForecastRequests,
		m.EstimateRequests,
		m.ScoreDistribution,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.ForecastCache,
		m.PublishErrors,
		m.PublishedEvents,
		m.PublisherEnabled,
	)

	return m
}

// NewUnregisteredMetrics creates Metrics that are never exported. One-shot
// tools use it when there is no /metrics endpoint to serve them.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

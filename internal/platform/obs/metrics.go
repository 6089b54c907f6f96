package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the
// serviceability pipeline.
type Metrics struct {
	ChecksTotal        *prometheus.CounterVec   // labels: outcome={serviceable,not_serviceable,invalid_pincode,restricted,unauthorized}
	GeocodeResolutions *prometheus.CounterVec   // labels: source={cache,nominatim,postal-directory,fallback}
	UpstreamDuration   *prometheus.HistogramVec // labels: endpoint={login,serviceability,order,tracking}
	TokenRefreshes     prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "serviceability",
			Name:      "checks_total",
			Help:      "Delivery serviceability checks by outcome.",
		}, []string{"outcome"}),
		GeocodeResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "serviceability",
			Name:      "geocode_resolutions_total",
			Help:      "Coordinate resolutions by winning source.",
		}, []string{"source"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "serviceability",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream courier API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		TokenRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "serviceability",
			Name:      "token_refreshes_total",
			Help:      "Login exchanges performed against the upstream auth endpoint.",
		}),
	}

	prometheus.MustRegister(
		m.ChecksTotal,
		m.GeocodeResolutions,
		m.UpstreamDuration,
		m.TokenRefreshes,
	)

	return m
}

// CountCheck records a check outcome; safe on a nil receiver so tests can
// run without a registry.
func (m *Metrics) CountCheck(outcome string) {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues(outcome).Inc()
}

// CountResolution records which source won a coordinate resolution.
func (m *Metrics) CountResolution(source string) {
	if m == nil {
		return
	}
	m.GeocodeResolutions.WithLabelValues(source).Inc()
}

// ObserveUpstream records an upstream request duration in seconds.
func (m *Metrics) ObserveUpstream(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(endpoint).Observe(seconds)
}

// CountTokenRefresh records a login exchange.
func (m *Metrics) CountTokenRefresh() {
	if m == nil {
		return
	}
	m.TokenRefreshes.Inc()
}

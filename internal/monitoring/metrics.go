package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing, so tests can run the
// engine without touching the global registry.
type Metrics struct {
	ValidationsTotal *prometheus.CounterVec
	CacheLookups     *prometheus.CounterVec
	ProbeErrorsTotal *prometheus.CounterVec
	ProbeDuration    *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		ValidationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assethound_validations_total",
			Help: "The total number of URL validations by result",
		}, []string{"result"}), // 'valid', 'broken', 'cancelled'
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assethound_cache_lookups_total",
			Help: "The total number of result cache lookups",
		}, []string{"outcome"}), // 'hit', 'miss'
		ProbeErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assethound_probe_errors_total",
			Help: "The total number of transport-level probe failures",
		}, []string{"kind"}), // e.g., 'timeout', 'dns', 'refused'
		ProbeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assethound_probe_duration_seconds",
			Help:    "Duration of HTTP probes",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
	}
}

func (m *Metrics) IncValidation(result string) {
	if m == nil {
		return
	}
	m.ValidationsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) IncCacheLookup(outcome string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncProbeError(kind string) {
	if m == nil {
		return
	}
	m.ProbeErrorsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveProbe(method string, seconds float64) {
	if m == nil {
		return
	}
	m.ProbeDuration.WithLabelValues(method).Observe(seconds)
}

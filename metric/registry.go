package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// MetricsRegistry owns the private Prometheus registry backing /metrics.
// Core service metrics and the Go runtime collectors are registered at
// construction; components with their own metrics register them through
// PrometheusRegistry.
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
}

// NewMetricsRegistry creates a new metrics registry with core service metrics
func NewMetricsRegistry() *MetricsRegistry {
	registry := &MetricsRegistry{
		prometheusRegistry: prometheus.NewRegistry(),
		Metrics:            NewMetrics(),
	}
	registry.registerMetrics()

	// Add Go runtime metrics
	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the core service metrics
func (r *MetricsRegistry) CoreMetrics() *Metrics {
	return r.Metrics
}

// registerMetrics registers all core service metrics
func (r *MetricsRegistry) registerMetrics() {
	r.prometheusRegistry.MustRegister(
		r.Metrics.ServiceStatus,
		r.Metrics.RequestsTotal,
		r.Metrics.RequestDuration,
		r.Metrics.RequestsInFlight,
		r.Metrics.TogglesTotal,
		r.Metrics.ErrorsTotal,
		r.Metrics.HealthCheckStatus,
	)
}

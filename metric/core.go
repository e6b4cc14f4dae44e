package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Service status values reported by the status gauge.
const (
	StatusStopped  = 0
	StatusStarting = 1
	StatusRunning  = 2
	StatusStopping = 3
	StatusFailed   = 4
)

// Metrics contains the service-level metrics. Components with their own
// metrics register them on the shared registry instead.
type Metrics struct {
	ServiceStatus     prometheus.Gauge
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	RequestsInFlight  prometheus.Gauge
	TogglesTotal      *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
	HealthCheckStatus *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all service metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ServiceStatus: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "cocktail_menu",
				Subsystem: "service",
				Name:      "status",
				Help:      "Service status (0=stopped, 1=starting, 2=running, 3=stopping, 4=failed)",
			},
		),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cocktail_menu",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"method", "path", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cocktail_menu",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "cocktail_menu",
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "HTTP requests currently being served",
			},
		),

		TogglesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cocktail_menu",
				Subsystem: "toggle",
				Name:      "operations_total",
				Help:      "Total number of menu toggle operations",
			},
			[]string{"kind"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cocktail_menu",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors",
			},
			[]string{"component", "class"},
		),

		HealthCheckStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "cocktail_menu",
				Subsystem: "health",
				Name:      "status",
				Help:      "Health check status (0=unhealthy, 1=healthy)",
			},
			[]string{"component"},
		),
	}
}

// RecordServiceStatus updates the service status gauge
func (c *Metrics) RecordServiceStatus(status int) {
	c.ServiceStatus.Set(float64(status))
}

// RecordHTTPRequest counts one served request and observes its duration
func (c *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	c.RequestsTotal.WithLabelValues(method, path, status).Inc()
	c.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncInFlight marks a request entering the handler chain
func (c *Metrics) IncInFlight() {
	c.RequestsInFlight.Inc()
}

// DecInFlight marks a request leaving the handler chain
func (c *Metrics) DecInFlight() {
	c.RequestsInFlight.Dec()
}

// RecordToggle counts a toggle operation (kind is "ingredient" or "cocktail")
func (c *Metrics) RecordToggle(kind string) {
	c.TogglesTotal.WithLabelValues(kind).Inc()
}

// RecordError increments the error counter
func (c *Metrics) RecordError(component, class string) {
	c.ErrorsTotal.WithLabelValues(component, class).Inc()
}

// RecordHealthStatus updates health check status
func (c *Metrics) RecordHealthStatus(component string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	c.HealthCheckStatus.WithLabelValues(component).Set(value)
}

// Package metric provides Prometheus-based metrics collection for the
// cocktail menu service.
//
// The package offers a centralized metrics registry managing core service
// metrics (HTTP traffic, toggle operations, health status) on a private
// Prometheus registry, plus an HTTP handler exposing them in Prometheus
// text format. Components with their own metrics, such as the websocket
// hub, register them on the same registry so a single /metrics endpoint
// covers the whole process.
//
// # Basic Usage
//
// Setting up the registry and mounting the endpoint:
//
//	registry := metric.NewMetricsRegistry()
//	mux.Handle("/metrics", registry.Handler())
//
//	// Record core service metrics
//	core := registry.CoreMetrics()
//	core.RecordServiceStatus(metric.StatusRunning)
//	core.RecordHTTPRequest("GET", "/", "200", elapsed)
//	core.RecordToggle("ingredient")
//
// # Core Metrics
//
// The registry automatically registers metrics tracking:
//
//   - Service lifecycle: cocktail_menu_service_status
//   - HTTP traffic: cocktail_menu_http_requests_total,
//     cocktail_menu_http_request_duration_seconds,
//     cocktail_menu_http_requests_in_flight
//   - Menu operations: cocktail_menu_toggle_operations_total
//   - Error tracking: cocktail_menu_errors_total
//   - Health checks: cocktail_menu_health_status
//
// Go runtime and process collectors are included, so the endpoint also
// reports goroutine counts, GC pauses and memory usage.
//
// # Component Metrics
//
// Components register their own collectors directly on the underlying
// registry:
//
//	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
//	    Namespace: "cocktail_menu",
//	    Subsystem: "websocket",
//	    Name:      "clients_connected",
//	    Help:      "Number of connected websocket clients",
//	})
//	registry.PrometheusRegistry().MustRegister(gauge)
//
// The registry is private rather than the Prometheus default registry, so
// tests can create as many registries as they need without collisions.
package metric

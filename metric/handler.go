package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the HTTP handler exposing the registry in Prometheus
// text format. The deployment serves a single port, so the handler is
// mounted on the main mux at /metrics rather than on a sidecar listener.
func (r *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(
		r.prometheusRegistry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	)
}

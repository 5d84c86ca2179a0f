// Package observability provides metrics and monitoring capabilities for the
// PneumoScan-Go application.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pneumoscan/pneumoscan-go/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	HTTP     *metrics.HTTPMetrics
	Registry *metrics.RegistryMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
// It returns an error if any metric collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	registryMetrics, err := metrics.NewRegistryMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry metrics: %w", err)
	}

	m := &Metrics{
		registry: registry,
		HTTP:     httpMetrics,
		Registry: registryMetrics,
	}

	return m, nil
}

// Handler returns the HTTP handler that exposes the metrics registry in
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

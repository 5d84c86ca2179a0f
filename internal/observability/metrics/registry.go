package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RegistryMetrics contains Prometheus metrics for model registry operations
type RegistryMetrics struct {
	registry *prometheus.Registry

	registryOperationsTotal   *prometheus.CounterVec
	registryOperationDuration *prometheus.HistogramVec
	activeModelsGauge         prometheus.Gauge
	mockInferencesTotal       *prometheus.CounterVec
	mockInferenceDuration     prometheus.Histogram
}

// NewRegistryMetrics creates and registers new model registry metrics
func NewRegistryMetrics(registry *prometheus.Registry) (*RegistryMetrics, error) {
	m := &RegistryMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *RegistryMetrics) initMetrics() {
	m.registryOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_registry_operations_total",
			Help: "Total number of model registry operations",
		},
		[]string{"operation", "status"}, // operation: list, get, upsert, toggle; status: success, error
	)

	m.registryOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_registry_operation_duration_seconds",
			Help:    "Time taken for model registry operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	m.activeModelsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_registry_active_models",
			Help: "Number of active model configurations",
		},
	)

	m.mockInferencesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mock_inferences_total",
			Help: "Total number of mock inference requests",
		},
		[]string{"status"}, // status: success, error
	)

	m.mockInferenceDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mock_inference_duration_seconds",
			Help:    "Time taken for mock inference requests including simulated latency",
			Buckets: []float64{0.1, 0.5, 1, 1.5, 2, 3, 5},
		},
	)
}

// RecordOperation records a registry operation with its outcome.
func (m *RegistryMetrics) RecordOperation(operation, status string, duration time.Duration) {
	m.registryOperationsTotal.WithLabelValues(operation, status).Inc()
	m.registryOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetActiveModels updates the active model gauge.
func (m *RegistryMetrics) SetActiveModels(count int) {
	m.activeModelsGauge.Set(float64(count))
}

// RecordMockInference records a mock inference request with its outcome.
func (m *RegistryMetrics) RecordMockInference(status string, duration time.Duration) {
	m.mockInferencesTotal.WithLabelValues(status).Inc()
	m.mockInferenceDuration.Observe(duration.Seconds())
}

// Describe implements the prometheus.Collector interface
func (m *RegistryMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.registryOperationsTotal.Describe(ch)
	m.registryOperationDuration.Describe(ch)
	m.activeModelsGauge.Describe(ch)
	m.mockInferencesTotal.Describe(ch)
	m.mockInferenceDuration.Describe(ch)
}

// Collect implements the prometheus.Collector interface
func (m *RegistryMetrics) Collect(ch chan<- prometheus.Metric) {
	m.registryOperationsTotal.Collect(ch)
	m.registryOperationDuration.Collect(ch)
	m.activeModelsGauge.Collect(ch)
	m.mockInferencesTotal.Collect(ch)
	m.mockInferenceDuration.Collect(ch)
}

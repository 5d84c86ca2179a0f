// Package inference defines the interface a classification-result provider
// implements and ships the mock provider used by the demo backend. Real
// inference runs in the browser client; the server-side provider only has to
// produce a result object shaped like the real thing.
package inference

import (
	"context"
	"time"

	"github.com/pneumoscan/pneumoscan-go/internal/conf"
	"github.com/pneumoscan/pneumoscan-go/internal/errors"
)

// Result is a single classification result for one submitted image.
type Result struct {
	Classification   string  `json:"classification"`
	Confidence       float64 `json:"confidence"`
	HeatmapAvailable bool    `json:"heatmap_available"`
}

// Provider produces a classification result for a model identifier. The API
// layer depends on this interface only, so the mock can be swapped for a real
// provider without touching the handlers.
type Provider interface {
	Classify(ctx context.Context, modelID string) (Result, error)
}

// MockProvider is an explicitly labeled stub: it sleeps to simulate inference
// latency and returns a canned result. It never inspects image data.
type MockProvider struct {
	Delay          time.Duration
	Classification string
	Confidence     float64
}

// NewMockProvider builds a mock provider from the inference settings.
func NewMockProvider(settings *conf.InferenceSettings) *MockProvider {
	return &MockProvider{
		Delay:          settings.MockDelay,
		Classification: settings.Classification,
		Confidence:     settings.Confidence,
	}
}

// Classify waits the configured mock latency and returns the canned result.
// The wait is per-request and honors context cancellation, so a slow mock
// never blocks other in-flight requests.
func (p *MockProvider) Classify(ctx context.Context, modelID string) (Result, error) {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Result{}, errors.New(ctx.Err()).
				Component("inference").
				Category(errors.CategoryInference).
				Context("model_id", modelID).
				Build()
		}
	}

	return Result{
		Classification:   p.Classification,
		Confidence:       p.Confidence,
		HeatmapAvailable: true,
	}, nil
}

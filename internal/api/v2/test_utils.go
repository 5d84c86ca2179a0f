// test_utils.go: Package api provides shared test utilities for API v2 tests.

package api

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/pneumoscan/pneumoscan-go/internal/conf"
	"github.com/pneumoscan/pneumoscan-go/internal/datastore"
)

// MockDataStore implements the datastore.Interface for testing
// This is a shared implementation that can be used across all test files
type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) Open() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) ListActiveModels() ([]datastore.ModelConfig, error) {
	args := m.Called()
	return args.Get(0).([]datastore.ModelConfig), args.Error(1)
}

func (m *MockDataStore) GetModelByType(modelType string) (datastore.ModelConfig, error) {
	args := m.Called(modelType)
	return args.Get(0).(datastore.ModelConfig), args.Error(1)
}

func (m *MockDataStore) UpsertModel(model *datastore.ModelConfig) error {
	args := m.Called(model)
	return args.Error(0)
}

func (m *MockDataStore) SetModelActive(modelType string, active bool) error {
	args := m.Called(modelType, active)
	return args.Error(0)
}

func (m *MockDataStore) CountModels() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) SaveSampleImage(image *datastore.SampleImage) error {
	args := m.Called(image)
	return args.Error(0)
}

func (m *MockDataStore) ListSampleImages() ([]datastore.SampleImage, error) {
	args := m.Called()
	return args.Get(0).([]datastore.SampleImage), args.Error(1)
}

// testModel returns a fully populated model configuration for tests.
func testModel() datastore.ModelConfig {
	return datastore.ModelConfig{
		ID:                  "8a7b9a1e-1111-4222-8333-444455556666",
		Name:                "Pneumonia Detector v2 Fast (ONNX)",
		ModelType:           datastore.ModelTypeYoloNEnhancedONNX,
		CDNURL:              "https://cdn.example.com/models/yolon.onnx",
		InputSize:           224,
		ClassificationLayer: "classification",
		Classes:             []string{"NORMAL", "BACTERIAL_PNEUMONIA", "VIRAL_PNEUMONIA"},
		FeatureLayers: map[string]datastore.FeatureLayer{
			"conv1": {SideLen: 28, Channels: 128},
		},
		BatchSize: 8,
		IsActive:  true,
	}
}

// testSettings returns settings suitable for handler tests. The mock
// inference provider is configured with zero delay so tests stay fast.
func testSettings(t *testing.T) *conf.Settings {
	t.Helper()
	return &conf.Settings{
		WebServer: conf.WebServerSettings{
			Debug: true,
			Log:   conf.LogConfig{Path: t.TempDir() + "/web.log"},
		},
		Inference: conf.InferenceSettings{
			MockDelay:      0 * time.Millisecond,
			Classification: "Bacterial Pneumonia",
			Confidence:     0.87,
		},
	}
}

// Setup function to create a test environment with an Echo instance, a mock
// datastore and a fully initialized API controller.
func setupTestEnvironment(t *testing.T) (*echo.Echo, *MockDataStore, *Controller) {
	t.Helper()

	e := echo.New()
	mockDS := new(MockDataStore)

	settings := testSettings(t)
	logger := log.New(os.Stdout, "API TEST: ", log.LstdFlags)

	controller, err := New(e, mockDS, settings, logger, nil)
	if err != nil {
		t.Fatalf("Failed to create test API controller: %v", err)
	}
	t.Cleanup(controller.Shutdown)

	return e, mockDS, controller
}

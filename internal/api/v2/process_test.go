package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pneumoscan/pneumoscan-go/internal/datastore"
	"github.com/pneumoscan/pneumoscan-go/internal/errors"
	"github.com/pneumoscan/pneumoscan-go/internal/inference"
)

// failingProvider simulates an inference backend failure.
type failingProvider struct{}

func (failingProvider) Classify(ctx context.Context, modelID string) (inference.Result, error) {
	return inference.Result{}, errors.Newf("inference backend unavailable").
		Component("inference").
		Category(errors.CategoryInference).
		Build()
}

// postProcess submits the mock inference form and returns the decoded response.
func postProcess(t *testing.T, e *echo.Echo, modelID string) (int, ProcessResponse) {
	t.Helper()

	form := url.Values{}
	if modelID != "" {
		form.Set("model_id", modelID)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v2/process", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var response ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	return rec.Code, response
}

// TestProcessImage tests the happy path of the mock inference endpoint.
func TestProcessImage(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	model := testModel()
	mockDS.On("ListActiveModels").Return([]datastore.ModelConfig{model}, nil)

	code, response := postProcess(t, e, model.ID)

	require.Equal(t, http.StatusOK, code)
	assert.True(t, response.Success)
	assert.Empty(t, response.Error)
	assert.Equal(t, model.ID, response.ModelID)

	require.NotNil(t, response.Result)
	assert.Equal(t, "Bacterial Pneumonia", response.Result.Classification)
	assert.InDelta(t, 0.87, response.Result.Confidence, 0.001)
	assert.True(t, response.Result.HeatmapAvailable)

	require.NotNil(t, response.ModelInfo)
	assert.Equal(t, model.ID, response.ModelInfo.ID)
	assert.Equal(t, model.CDNURL, response.ModelInfo.CDNURL)

	mockDS.AssertExpectations(t)
}

// TestProcessImageByModelType tests that the model type also resolves the model.
func TestProcessImageByModelType(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	model := testModel()
	mockDS.On("ListActiveModels").Return([]datastore.ModelConfig{model}, nil)

	code, response := postProcess(t, e, model.ModelType)

	require.Equal(t, http.StatusOK, code)
	assert.True(t, response.Success)
	assert.Equal(t, model.ModelType, response.ModelID)
	require.NotNil(t, response.ModelInfo)
	assert.Equal(t, model.ID, response.ModelInfo.ID)

	mockDS.AssertExpectations(t)
}

// TestProcessImageFallback tests that an unknown identifier falls back to the
// first active model instead of failing.
func TestProcessImageFallback(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	model := testModel()
	mockDS.On("ListActiveModels").Return([]datastore.ModelConfig{model}, nil)

	code, response := postProcess(t, e, "unknown-identifier")

	require.Equal(t, http.StatusOK, code)
	assert.True(t, response.Success)
	require.NotNil(t, response.ModelInfo)
	assert.Equal(t, model.ID, response.ModelInfo.ID)

	mockDS.AssertExpectations(t)
}

// TestProcessImageMissingModelID tests that an omitted model_id is treated as "default".
func TestProcessImageMissingModelID(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	model := testModel()
	mockDS.On("ListActiveModels").Return([]datastore.ModelConfig{model}, nil)

	code, response := postProcess(t, e, "")

	require.Equal(t, http.StatusOK, code)
	assert.True(t, response.Success)
	assert.Equal(t, "default", response.ModelID)

	mockDS.AssertExpectations(t)
}

// TestProcessImageNoModels tests the degraded 200-shaped body when the
// registry holds no active models.
func TestProcessImageNoModels(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("ListActiveModels").Return([]datastore.ModelConfig{}, nil)

	code, response := postProcess(t, e, "anything")

	require.Equal(t, http.StatusOK, code)
	assert.False(t, response.Success)
	assert.Equal(t, "no active models available", response.Error)
	assert.Nil(t, response.Result)
	assert.Nil(t, response.ModelInfo)

	mockDS.AssertExpectations(t)
}

// TestProcessImageProviderError tests that provider failures degrade to a
// 200-shaped error body instead of a 5xx.
func TestProcessImageProviderError(t *testing.T) {
	e := echo.New()
	mockDS := new(MockDataStore)

	model := testModel()
	mockDS.On("ListActiveModels").Return([]datastore.ModelConfig{model}, nil)

	settings := testSettings(t)
	controller, err := New(e, mockDS, settings, nil, nil, WithProvider(failingProvider{}))
	require.NoError(t, err)
	t.Cleanup(controller.Shutdown)

	code, response := postProcess(t, e, model.ID)

	require.Equal(t, http.StatusOK, code)
	assert.False(t, response.Success)
	assert.Equal(t, "inference backend unavailable", response.Error)

	mockDS.AssertExpectations(t)
}

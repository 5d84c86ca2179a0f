package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pneumoscan/pneumoscan-go/internal/errors"
)

// TestHealthCheck tests the health endpoint reports database connectivity.
func TestHealthCheck(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("CountModels").Return(int64(4), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/health", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "connected", response["database_status"])
	assert.Equal(t, float64(4), response["model_count"])
	assert.Contains(t, response, "uptime_seconds")

	mockDS.AssertExpectations(t)
}

// TestHealthCheckDatabaseDown tests that a storage failure is surfaced without
// failing the endpoint itself.
func TestHealthCheckDatabaseDown(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	dbErr := errors.Newf("counting models: database is locked").
		Component("datastore").
		Category(errors.CategoryDatabase).
		Build()
	mockDS.On("CountModels").Return(int64(0), dbErr)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/health", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "disconnected", response["database_status"])
	assert.Contains(t, response, "database_error")

	mockDS.AssertExpectations(t)
}

// TestNewErrorResponse tests the error response constructor.
func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(errors.Newf("boom").Build(), "Something failed", http.StatusInternalServerError)

	assert.Equal(t, "boom", resp.Error)
	assert.Equal(t, "Something failed", resp.Message)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Len(t, resp.CorrelationID, 8)
}

// TestNewErrorResponseNilError tests that a nil error falls back to the message.
func TestNewErrorResponseNilError(t *testing.T) {
	resp := NewErrorResponse(nil, "No underlying error", http.StatusBadRequest)

	assert.Equal(t, "No underlying error", resp.Error)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

// TestGenerateCorrelationID tests that correlation IDs are unique across calls.
func TestGenerateCorrelationID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateCorrelationID()
		assert.Len(t, id, 8)
		assert.False(t, seen[id], "correlation ID %q repeated", id)
		seen[id] = true
	}
}

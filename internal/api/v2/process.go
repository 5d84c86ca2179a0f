// process.go contains the mock inference endpoint. The handler never performs
// real inference; the client runs the model in the browser and this endpoint
// only simulates the latency and response shape of a server-side pipeline.
package api

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pneumoscan/pneumoscan-go/internal/datastore"
	"github.com/pneumoscan/pneumoscan-go/internal/inference"
)

// ProcessResponse is the mock inference response. The endpoint deliberately
// degrades to a 200-shaped {success:false, error} body on any failure instead
// of propagating an error status.
type ProcessResponse struct {
	Success   bool              `json:"success"`
	Result    *inference.Result `json:"result,omitempty"`
	ModelInfo *ModelProjection  `json:"model_info,omitempty"`
	ModelID   string            `json:"model_id,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// initProcessRoutes registers the mock inference endpoint
func (c *Controller) initProcessRoutes() {
	c.Group.POST("/process", c.ProcessImage)
}

// ProcessImage handles POST /api/v2/process
// Accepts a model_id form field, waits the simulated inference latency and
// returns the canned classification result plus the resolved model metadata.
func (c *Controller) ProcessImage(ctx echo.Context) error {
	start := time.Now()
	modelID := ctx.FormValue("model_id")
	if modelID == "" {
		modelID = "default"
	}

	modelInfo, err := c.resolveModelInfo(modelID)
	if err != nil {
		c.recordMockInference("error", start)
		c.logAPIRequest(ctx, slog.LevelWarn, "Mock inference failed to resolve model",
			"model_id", modelID, "error", err.Error())
		return ctx.JSON(http.StatusOK, ProcessResponse{Success: false, Error: err.Error()})
	}

	result, err := c.Provider.Classify(ctx.Request().Context(), modelID)
	if err != nil {
		c.recordMockInference("error", start)
		c.logAPIRequest(ctx, slog.LevelWarn, "Mock inference failed",
			"model_id", modelID, "error", err.Error())
		return ctx.JSON(http.StatusOK, ProcessResponse{Success: false, Error: err.Error()})
	}
	c.recordMockInference("success", start)

	return ctx.JSON(http.StatusOK, ProcessResponse{
		Success:   true,
		Result:    &result,
		ModelInfo: modelInfo,
		ModelID:   modelID,
	})
}

// resolveModelInfo matches the submitted identifier against active models by
// record ID first, then by model type, and falls back to the first available
// model when the identifier is unrecognized.
func (c *Controller) resolveModelInfo(modelID string) (*ModelProjection, error) {
	models, err := c.DS.ListActiveModels()
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, errNoModelsAvailable
	}

	var match *datastore.ModelConfig
	for i := range models {
		if models[i].ID == modelID || models[i].ModelType == modelID {
			match = &models[i]
			break
		}
	}
	if match == nil {
		match = &models[0]
	}

	projection := projectModel(match)
	return &projection, nil
}

// errNoModelsAvailable keeps the degraded-response message stable.
var errNoModelsAvailable = stderrors.New("no active models available")

// recordMockInference records a mock inference metric when metrics are wired.
func (c *Controller) recordMockInference(status string, start time.Time) {
	if c.metrics != nil && c.metrics.Registry != nil {
		c.metrics.Registry.RecordMockInference(status, time.Since(start))
	}
}

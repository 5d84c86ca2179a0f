// models.go contains API v2 endpoints for model configuration operations
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pneumoscan/pneumoscan-go/internal/datastore"
	"github.com/pneumoscan/pneumoscan-go/internal/errors"
)

// modelNotFoundBody is the fixed-shape body returned for lookup misses.
// Clients match on it, so the shape must not change.
var modelNotFoundBody = map[string]string{"error": "Model not found"}

// ModelProjection is the client-facing view of a stored model configuration,
// omitting internal bookkeeping fields.
type ModelProjection struct {
	ID                  string                             `json:"id"`
	Name                string                             `json:"name"`
	CDNURL              string                             `json:"cdn_url"`
	InputSize           int                                `json:"input_size"`
	FeatureLayers       map[string]datastore.FeatureLayer  `json:"feature_layers"`
	BatchSize           int                                `json:"batch_size"`
	ClassificationLayer string                             `json:"classification_layer"`
	ClassNames          []string                           `json:"class_names"`
}

// ModelListResponse wraps the list of active model projections.
type ModelListResponse struct {
	Models []ModelProjection `json:"models"`
}

// ClassesResponse carries the class taxonomy of one model.
type ClassesResponse struct {
	Classes []string `json:"classes"`
}

// UpsertModelRequest is the admin write payload for creating or updating a
// model configuration. An empty ID means create.
type UpsertModelRequest struct {
	ID                  string                            `json:"id"`
	Name                string                            `json:"name"`
	ModelType           string                            `json:"model_type"`
	CDNURL              string                            `json:"cdn_url"`
	InputSize           int                               `json:"input_size"`
	ClassificationLayer string                            `json:"classification_layer"`
	Classes             []string                          `json:"classes"`
	FeatureLayers       map[string]datastore.FeatureLayer `json:"feature_layers"`
	BatchSize           int                               `json:"batch_size"`
}

// SetActiveRequest toggles the soft-delete flag of a model configuration.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// initModelRoutes registers the model configuration endpoints
func (c *Controller) initModelRoutes() {
	c.Group.GET("/models", c.GetModels)
	c.Group.GET("/models/:modelType", c.GetModelByType)
	c.Group.GET("/models/:modelType/classes", c.GetModelClasses)

	// Admin write path
	c.Group.POST("/models", c.UpsertModel)
	c.Group.POST("/models/:modelType/active", c.SetModelActive)
}

// projectModel maps a stored record to its client projection.
func projectModel(m *datastore.ModelConfig) ModelProjection {
	return ModelProjection{
		ID:                  m.ID,
		Name:                m.Name,
		CDNURL:              m.CDNURL,
		InputSize:           m.InputSize,
		FeatureLayers:       m.FeatureLayers,
		BatchSize:           m.BatchSize,
		ClassificationLayer: m.ClassificationLayer,
		ClassNames:          m.Classes,
	}
}

// GetModels handles GET /api/v2/models
// Returns all active model configurations projected for the client.
func (c *Controller) GetModels(ctx echo.Context) error {
	start := time.Now()
	models, err := c.DS.ListActiveModels()
	if err != nil {
		c.recordRegistryOp("list", "error", start)
		return c.HandleError(ctx, err, "Failed to list models", http.StatusInternalServerError)
	}
	c.recordRegistryOp("list", "success", start)
	if c.metrics != nil && c.metrics.Registry != nil {
		c.metrics.Registry.SetActiveModels(len(models))
	}

	response := ModelListResponse{Models: make([]ModelProjection, 0, len(models))}
	for i := range models {
		response.Models = append(response.Models, projectModel(&models[i]))
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetModelByType handles GET /api/v2/models/:modelType
// Returns the projection of the active model with the given type, or the
// fixed 404 body when no active record matches.
func (c *Controller) GetModelByType(ctx echo.Context) error {
	modelType := ctx.Param("modelType")

	start := time.Now()
	model, err := c.DS.GetModelByType(modelType)
	if err != nil {
		if errors.IsNotFound(err) {
			c.recordRegistryOp("get", "miss", start)
			c.logAPIRequest(ctx, slog.LevelInfo, "Model not found", "model_type", modelType)
			return ctx.JSON(http.StatusNotFound, modelNotFoundBody)
		}
		c.recordRegistryOp("get", "error", start)
		return c.HandleError(ctx, err, "Failed to get model", http.StatusInternalServerError)
	}
	c.recordRegistryOp("get", "success", start)

	return ctx.JSON(http.StatusOK, projectModel(&model))
}

// GetModelClasses handles GET /api/v2/models/:modelType/classes
// Returns just the class taxonomy of the matching active model.
func (c *Controller) GetModelClasses(ctx echo.Context) error {
	modelType := ctx.Param("modelType")

	start := time.Now()
	model, err := c.DS.GetModelByType(modelType)
	if err != nil {
		if errors.IsNotFound(err) {
			c.recordRegistryOp("get", "miss", start)
			return ctx.JSON(http.StatusNotFound, modelNotFoundBody)
		}
		c.recordRegistryOp("get", "error", start)
		return c.HandleError(ctx, err, "Failed to get model classes", http.StatusInternalServerError)
	}
	c.recordRegistryOp("get", "success", start)

	return ctx.JSON(http.StatusOK, ClassesResponse{Classes: model.Classes})
}

// UpsertModel handles POST /api/v2/models
// Administrative write path; enforces model_type uniqueness.
func (c *Controller) UpsertModel(ctx echo.Context) error {
	var req UpsertModelRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	model := datastore.ModelConfig{
		ID:                  req.ID,
		Name:                req.Name,
		ModelType:           req.ModelType,
		CDNURL:              req.CDNURL,
		InputSize:           req.InputSize,
		ClassificationLayer: req.ClassificationLayer,
		Classes:             req.Classes,
		FeatureLayers:       req.FeatureLayers,
		BatchSize:           req.BatchSize,
		IsActive:            true,
	}

	start := time.Now()
	if err := c.DS.UpsertModel(&model); err != nil {
		switch {
		case errors.IsConflict(err):
			c.recordRegistryOp("upsert", "conflict", start)
			return c.HandleError(ctx, err, "Model type already registered", http.StatusConflict)
		case errors.IsValidation(err):
			c.recordRegistryOp("upsert", "invalid", start)
			return c.HandleError(ctx, err, "Invalid model configuration", http.StatusBadRequest)
		default:
			c.recordRegistryOp("upsert", "error", start)
			return c.HandleError(ctx, err, "Failed to save model", http.StatusInternalServerError)
		}
	}
	c.recordRegistryOp("upsert", "success", start)

	c.logAPIRequest(ctx, slog.LevelInfo, "Model configuration saved",
		"model_type", model.ModelType, "model_id", model.ID)

	return ctx.JSON(http.StatusCreated, projectModel(&model))
}

// SetModelActive handles POST /api/v2/models/:modelType/active
// Soft-activates or deactivates a model without deleting the row.
func (c *Controller) SetModelActive(ctx echo.Context) error {
	modelType := ctx.Param("modelType")

	var req SetActiveRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	start := time.Now()
	if err := c.DS.SetModelActive(modelType, req.Active); err != nil {
		if errors.IsNotFound(err) {
			c.recordRegistryOp("toggle", "miss", start)
			return ctx.JSON(http.StatusNotFound, modelNotFoundBody)
		}
		c.recordRegistryOp("toggle", "error", start)
		return c.HandleError(ctx, err, "Failed to update model", http.StatusInternalServerError)
	}
	c.recordRegistryOp("toggle", "success", start)

	c.logAPIRequest(ctx, slog.LevelInfo, "Model active flag updated",
		"model_type", modelType, "active", req.Active)

	return ctx.JSON(http.StatusOK, map[string]any{
		"model_type": modelType,
		"active":     req.Active,
	})
}

// recordRegistryOp records a registry operation metric when metrics are wired.
func (c *Controller) recordRegistryOp(operation, status string, start time.Time) {
	if c.metrics != nil && c.metrics.Registry != nil {
		c.metrics.Registry.RecordOperation(operation, status, time.Since(start))
	}
}

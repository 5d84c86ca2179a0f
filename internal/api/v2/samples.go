// samples.go contains API v2 endpoints for sample image listing
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SampleImageEntry is the client-facing view of one sample image.
type SampleImageEntry struct {
	ClassName string `json:"class_name"`
	Name      string `json:"name"`
	URL       string `json:"url"`
}

// SampleImagesResponse wraps the per-class sample image selection.
type SampleImagesResponse struct {
	Samples []SampleImageEntry `json:"samples"`
}

// initSampleRoutes registers the sample image endpoints
func (c *Controller) initSampleRoutes() {
	c.Group.GET("/samples", c.GetSampleImages)
}

// GetSampleImages handles GET /api/v2/samples
// Returns one randomly selected representative image per class.
func (c *Controller) GetSampleImages(ctx echo.Context) error {
	start := time.Now()
	images, err := c.DS.ListSampleImages()
	if err != nil {
		c.recordRegistryOp("samples", "error", start)
		return c.HandleError(ctx, err, "Failed to list sample images", http.StatusInternalServerError)
	}
	c.recordRegistryOp("samples", "success", start)

	response := SampleImagesResponse{Samples: make([]SampleImageEntry, 0, len(images))}
	for i := range images {
		response.Samples = append(response.Samples, SampleImageEntry{
			ClassName: images[i].ClassName,
			Name:      images[i].Name,
			URL:       images[i].URL,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// seed.go populates the registry with the default model variants and sample
// images so a fresh install serves a working demo configuration.
package datastore

import "fmt"

// DefaultClasses is the class taxonomy shared by the default pneumonia
// detection variants, in score-vector order.
var DefaultClasses = []string{"NORMAL", "BACTERIAL_PNEUMONIA", "VIRAL_PNEUMONIA"}

// defaultModels returns the registry records for the supported YOLO variants.
// CDN URLs point at the public artifact bucket the demo client loads from.
func defaultModels() []ModelConfig {
	return []ModelConfig{
		{
			Name:      "Pneumonia Detector v2 Fast (ONNX)",
			ModelType: ModelTypeYoloNEnhancedONNX,
			CDNURL:    "https://cdn.pneumoscan.dev/models/yolon-enhanced.onnx",
			Classes:   DefaultClasses,
			FeatureLayers: map[string]FeatureLayer{
				"conv1": {SideLen: 28, Channels: 128},
				"conv2": {SideLen: 56, Channels: 64},
			},
		},
		{
			Name:      "Pneumonia Detector v2 Fast (ORT)",
			ModelType: ModelTypeYoloNEnhancedORT,
			CDNURL:    "https://cdn.pneumoscan.dev/models/yolon-enhanced.ort",
			Classes:   DefaultClasses,
			FeatureLayers: map[string]FeatureLayer{
				"conv1": {SideLen: 28, Channels: 128},
				"conv2": {SideLen: 56, Channels: 64},
			},
		},
		{
			Name:      "Pneumonia Detector v2 Slow",
			ModelType: ModelTypeYoloSEnhanced,
			CDNURL:    "https://cdn.pneumoscan.dev/models/yolos-enhanced.onnx",
			Classes:   DefaultClasses,
			FeatureLayers: map[string]FeatureLayer{
				"conv1": {SideLen: 28, Channels: 256},
				"conv2": {SideLen: 56, Channels: 128},
			},
		},
		{
			Name:      "Pneumonia Detector v2 Accurate",
			ModelType: ModelTypeYoloMEnhanced,
			CDNURL:    "https://cdn.pneumoscan.dev/models/yolom-enhanced.onnx",
			BatchSize: 4,
			Classes:   DefaultClasses,
			FeatureLayers: map[string]FeatureLayer{
				"conv1": {SideLen: 28, Channels: 512},
			},
		},
	}
}

// defaultSampleImages returns one demo X-ray per class.
func defaultSampleImages() []SampleImage {
	return []SampleImage{
		{ClassName: "NORMAL", Name: "Sample 1", URL: "https://cdn.pneumoscan.dev/samples/normal-1.jpg"},
		{ClassName: "BACTERIAL_PNEUMONIA", Name: "Sample 2", URL: "https://cdn.pneumoscan.dev/samples/bacterial-1.jpg"},
		{ClassName: "VIRAL_PNEUMONIA", Name: "Sample 3", URL: "https://cdn.pneumoscan.dev/samples/viral-1.jpg"},
	}
}

// Seed inserts the default model variants and sample images when the registry
// is empty. It is a no-op on a populated database so operator edits survive
// restarts.
func Seed(ds Interface) error {
	count, err := ds.CountModels()
	if err != nil {
		return fmt.Errorf("checking registry before seeding: %w", err)
	}
	if count > 0 {
		return nil
	}

	models := defaultModels()
	for i := range models {
		if err := ds.UpsertModel(&models[i]); err != nil {
			return fmt.Errorf("seeding model %s: %w", models[i].ModelType, err)
		}
	}

	images := defaultSampleImages()
	for i := range images {
		if err := ds.SaveSampleImage(&images[i]); err != nil {
			return fmt.Errorf("seeding sample image for %s: %w", images[i].ClassName, err)
		}
	}

	return nil
}

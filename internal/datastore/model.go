// model.go this code defines the data model for the model configuration registry
package datastore

import "time"

// Supported model variants. A ModelConfig's ModelType must be one of these
// and is unique across all records.
const (
	ModelTypeYoloNEnhancedONNX = "yolon-artirilmisVeri-ONNX"
	ModelTypeYoloNEnhancedORT  = "yolon-artirilmisVeri-ORT"
	ModelTypeYoloSEnhanced     = "yolos-artirilmisVeri"
	ModelTypeYoloMEnhanced     = "yolom-artirilmisVeri"
)

// KnownModelTypes maps each supported variant to its human readable label.
var KnownModelTypes = map[string]string{
	ModelTypeYoloNEnhancedONNX: "YOLO N Enhanced Data ONNX Format",
	ModelTypeYoloNEnhancedORT:  "YOLO N Enhanced Data ORT Format",
	ModelTypeYoloSEnhanced:     "YOLO S Enhanced Data",
	ModelTypeYoloMEnhanced:     "YOLO M Enhanced Data",
}

// FeatureLayer describes an intermediate model layer exposed for
// explanation heat maps (Score-CAM), by spatial side length and channel count.
type FeatureLayer struct {
	SideLen  int `json:"sideLen"`
	Channels int `json:"channels"`
}

// ModelConfig describes one supported classifier variant: where the client
// fetches the artifact from and how to drive it. The feature_layers keys must
// exist as addressable layers in the model artifact, and the classes length
// must match the model's output dimensionality; both are contracts with the
// model author, not enforced here.
type ModelConfig struct {
	ID                  string                  `gorm:"primaryKey;size:36"`
	Name                string                  `gorm:"size:100"`
	ModelType           string                  `gorm:"uniqueIndex;not null;size:50"`
	CDNURL              string                  `gorm:"column:cdn_url;not null"`
	InputSize           int                     `gorm:"default:224"`
	ClassificationLayer string                  `gorm:"size:100;default:classification"`
	Classes             []string                `gorm:"serializer:json"`
	FeatureLayers       map[string]FeatureLayer `gorm:"serializer:json"`
	BatchSize           int                     `gorm:"default:8"`
	IsActive            bool                    `gorm:"default:true;index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName overrides the table name for ModelConfig.
func (ModelConfig) TableName() string {
	return "model_configs"
}

// FeatureLayerNames returns the feature layer names in no particular order.
func (m *ModelConfig) FeatureLayerNames() []string {
	names := make([]string, 0, len(m.FeatureLayers))
	for name := range m.FeatureLayers {
		names = append(names, name)
	}
	return names
}

// SampleImage is one representative chest X-ray per class shown by the demo
// client. The sample listing endpoint picks one random row per class name.
type SampleImage struct {
	ID        uint   `gorm:"primaryKey"`
	ClassName string `gorm:"index;not null;size:100"`
	Name      string `gorm:"size:100"`
	URL       string `gorm:"not null"`
	CreatedAt time.Time
}

// TableName overrides the table name for SampleImage.
func (SampleImage) TableName() string {
	return "sample_images"
}

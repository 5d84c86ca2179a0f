// interfaces.go: this code defines the interface for the model registry database operations
package datastore

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pneumoscan/pneumoscan-go/internal/conf"
	"github.com/pneumoscan/pneumoscan-go/internal/errors"
)

// Interface abstracts the underlying database implementation and defines the
// operations of the model configuration registry.
type Interface interface {
	Open() error
	Close() error

	ListActiveModels() ([]ModelConfig, error)
	GetModelByType(modelType string) (ModelConfig, error)
	UpsertModel(model *ModelConfig) error
	SetModelActive(modelType string, active bool) error
	CountModels() (int64, error)

	SaveSampleImage(image *SampleImage) error
	ListSampleImages() ([]SampleImage, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// ListActiveModels returns all model configurations with is_active = true in
// stable name order. Inactive records are excluded from every read path.
func (ds *DataStore) ListActiveModels() ([]ModelConfig, error) {
	var models []ModelConfig
	err := ds.DB.Where("is_active = ?", true).
		Order("name ASC, model_type ASC").
		Find(&models).Error
	if err != nil {
		return nil, errors.New(fmt.Errorf("listing active models: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return models, nil
}

// GetModelByType retrieves the active model configuration with an exact
// model_type match. Inactive records behave as if they did not exist.
func (ds *DataStore) GetModelByType(modelType string) (ModelConfig, error) {
	var model ModelConfig
	err := ds.DB.Where("model_type = ? AND is_active = ?", modelType, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ModelConfig{}, errors.Newf("no active model with type %q", modelType).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Context("model_type", modelType).
				Build()
		}
		return ModelConfig{}, errors.New(fmt.Errorf("getting model by type %q: %w", modelType, err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return model, nil
}

// UpsertModel creates or updates a model configuration. Uniqueness of
// model_type is enforced inside a transaction: a record without an ID is a
// create and conflicts with any existing record of the same type; a record
// with an ID may only update the record already holding that type. The
// original row is left untouched on conflict.
func (ds *DataStore) UpsertModel(model *ModelConfig) error {
	applyModelDefaults(model)
	if err := validateModelConfig(model); err != nil {
		return err
	}

	return ds.DB.Transaction(func(tx *gorm.DB) error {
		var existing ModelConfig
		err := tx.Where("model_type = ?", model.ModelType).First(&existing).Error

		switch {
		case err == nil:
			if model.ID == "" || model.ID != existing.ID {
				return errors.Newf("model type %q is already registered", model.ModelType).
					Component("datastore").
					Category(errors.CategoryConflict).
					Context("model_type", model.ModelType).
					Build()
			}
			// IDs are immutable, so preserve the original creation time.
			model.CreatedAt = existing.CreatedAt

		case errors.Is(err, gorm.ErrRecordNotFound):
			if model.ID == "" {
				model.ID = uuid.NewString()
			}

		default:
			return errors.New(fmt.Errorf("looking up model type %q: %w", model.ModelType, err)).
				Component("datastore").
				Category(errors.CategoryDatabase).
				Build()
		}

		if err := tx.Save(model).Error; err != nil {
			return errors.New(fmt.Errorf("saving model %q: %w", model.ModelType, err)).
				Component("datastore").
				Category(errors.CategoryDatabase).
				Build()
		}
		return nil
	})
}

// SetModelActive flips the soft-delete flag of a model configuration without
// deleting the underlying row.
func (ds *DataStore) SetModelActive(modelType string, active bool) error {
	result := ds.DB.Model(&ModelConfig{}).
		Where("model_type = ?", modelType).
		Update("is_active", active)
	if result.Error != nil {
		return errors.New(fmt.Errorf("updating is_active for %q: %w", modelType, result.Error)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	if result.RowsAffected == 0 {
		return errors.Newf("no model with type %q", modelType).
			Component("datastore").
			Category(errors.CategoryNotFound).
			Context("model_type", modelType).
			Build()
	}
	return nil
}

// CountModels returns the total number of registered models, active or not.
// Used by the health check as a cheap storage connectivity probe.
func (ds *DataStore) CountModels() (int64, error) {
	var count int64
	if err := ds.DB.Model(&ModelConfig{}).Count(&count).Error; err != nil {
		return 0, errors.New(fmt.Errorf("counting models: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return count, nil
}

// SaveSampleImage stores one sample image record.
func (ds *DataStore) SaveSampleImage(image *SampleImage) error {
	if image.ClassName == "" || image.URL == "" {
		return errors.Newf("sample image requires class_name and url").
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}
	if err := ds.DB.Create(image).Error; err != nil {
		return errors.New(fmt.Errorf("saving sample image: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// ListSampleImages returns one randomly selected sample image per class name,
// ordered by class name.
func (ds *DataStore) ListSampleImages() ([]SampleImage, error) {
	var classes []string
	err := ds.DB.Model(&SampleImage{}).
		Distinct("class_name").
		Order("class_name ASC").
		Pluck("class_name", &classes).Error
	if err != nil {
		return nil, errors.New(fmt.Errorf("listing sample image classes: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	images := make([]SampleImage, 0, len(classes))
	for _, class := range classes {
		var image SampleImage
		err := ds.DB.Where("class_name = ?", class).
			Order(ds.randomOrder()).
			First(&image).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, errors.New(fmt.Errorf("picking sample image for class %q: %w", class, err)).
				Component("datastore").
				Category(errors.CategoryDatabase).
				Build()
		}
		images = append(images, image)
	}
	return images, nil
}

// randomOrder returns the database-specific SQL fragment for random row ordering.
func (ds *DataStore) randomOrder() string {
	switch ds.DB.Dialector.Name() {
	case "mysql":
		return "RAND()"
	default:
		return "RANDOM()"
	}
}

// applyModelDefaults populates default values on a model configuration prior
// to validation, mirroring the column defaults for records built in code.
func applyModelDefaults(model *ModelConfig) {
	if model.InputSize == 0 {
		model.InputSize = 224
	}
	if model.ClassificationLayer == "" {
		model.ClassificationLayer = "classification"
	}
	if model.BatchSize == 0 {
		model.BatchSize = 8
	}
	if model.Classes == nil {
		model.Classes = []string{}
	}
	if model.FeatureLayers == nil {
		model.FeatureLayers = map[string]FeatureLayer{}
	}
}

// validateModelConfig checks a model configuration at the storage boundary
// so caller-supplied JSON is never trusted blindly.
func validateModelConfig(model *ModelConfig) error {
	if _, ok := KnownModelTypes[model.ModelType]; !ok {
		return errors.Newf("unsupported model type %q", model.ModelType).
			Component("datastore").
			Category(errors.CategoryValidation).
			Context("model_type", model.ModelType).
			Build()
	}
	if model.Name == "" {
		return errors.Newf("model name must not be empty").
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}
	parsed, err := url.Parse(model.CDNURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errors.Newf("cdn_url %q is not a well-formed absolute URL", model.CDNURL).
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}
	if model.InputSize <= 0 {
		return errors.Newf("input_size must be positive, got %d", model.InputSize).
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}
	if model.BatchSize <= 0 {
		return errors.Newf("batch_size must be positive, got %d", model.BatchSize).
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}
	for name, layer := range model.FeatureLayers {
		if name == "" {
			return errors.Newf("feature layer name must not be empty").
				Component("datastore").
				Category(errors.CategoryValidation).
				Build()
		}
		if layer.SideLen <= 0 || layer.Channels <= 0 {
			return errors.Newf("feature layer %q has invalid dimensions %dx%d", name, layer.SideLen, layer.Channels).
				Component("datastore").
				Category(errors.CategoryValidation).
				Context("layer", name).
				Build()
		}
	}
	return nil
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&ModelConfig{}, &SampleImage{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)
}

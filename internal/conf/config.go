// config.go: This file contains the configuration for the PneumoScan-Go application.
// It defines the settings struct and functions to load the settings.
package conf

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// LogConfig contains settings for log files.
type LogConfig struct {
	Enabled bool   // true to enable this log
	Path    string // path to log file
	MaxSize int64  // max log size in bytes before rotation
}

// MainSettings contains top level application settings.
type MainSettings struct {
	Name string    // name of the application instance
	Log  LogConfig // main log settings
}

// WebServerSettings contains settings for the HTTP server.
type WebServerSettings struct {
	Enabled      bool      // true to enable the web server
	Port         string    // port the web server listens on
	Debug        bool      // true to enable debug logging of requests
	WorkerScript string    // path to the client inference worker script asset
	Log          LogConfig // web server log settings
}

// SQLiteSettings contains settings for the SQLite registry backend.
type SQLiteSettings struct {
	Enabled bool   // true to enable SQLite
	Path    string // path to SQLite database file
}

// MySQLSettings contains settings for the MySQL registry backend.
type MySQLSettings struct {
	Enabled  bool   // true to enable MySQL
	Username string // MySQL username
	Password string // MySQL password
	Database string // MySQL database name
	Host     string // MySQL host
	Port     string // MySQL port
}

// OutputSettings selects the storage backend for the model registry.
type OutputSettings struct {
	SQLite SQLiteSettings // SQLite database settings
	MySQL  MySQLSettings  // MySQL database settings
}

// RegistrySettings contains settings for the model configuration registry.
type RegistrySettings struct {
	AutoSeed bool // seed default model variants when the registry is empty
}

// InferenceSettings configures the mock inference provider. The provider
// never performs real inference; these values shape the canned response.
type InferenceSettings struct {
	MockDelay      time.Duration // simulated inference latency
	Classification string        // canned classification label
	Confidence     float64       // canned confidence score
}

// Settings contains all configuration options for the PneumoScan-Go application.
type Settings struct {
	Debug bool // true to enable debug mode

	Version   string // application version, usually set by build process
	BuildDate string // build date, usually set by build process

	Main      MainSettings
	WebServer WebServerSettings
	Output    OutputSettings
	Registry  RegistrySettings
	Inference InferenceSettings
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths := getDefaultConfigPaths()
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, defaults apply
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// getDefaultConfigPaths returns the config search paths: working directory
// first, then the user config directory.
func getDefaultConfigPaths() []string {
	paths := []string{"."}
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "pneumoscan"))
	}
	return paths
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load()
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}

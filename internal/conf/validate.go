// conf/validate.go

package conf

import (
	"fmt"
	"strconv"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateInferenceSettings(&settings.Inference); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateWebServerSettings validates the port number of the web server.
func validateWebServerSettings(settings *WebServerSettings) error {
	if !settings.Enabled {
		return nil
	}
	port, err := strconv.Atoi(settings.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid webserver port: %s", settings.Port)
	}
	return nil
}

// validateOutputSettings requires exactly one storage backend to be enabled.
func validateOutputSettings(settings *OutputSettings) error {
	switch {
	case settings.SQLite.Enabled && settings.MySQL.Enabled:
		return fmt.Errorf("only one of output.sqlite and output.mysql may be enabled")
	case !settings.SQLite.Enabled && !settings.MySQL.Enabled:
		return fmt.Errorf("one of output.sqlite or output.mysql must be enabled")
	case settings.SQLite.Enabled && settings.SQLite.Path == "":
		return fmt.Errorf("output.sqlite.path must not be empty")
	}
	return nil
}

// validateInferenceSettings keeps the mock latency and canned score sane.
func validateInferenceSettings(settings *InferenceSettings) error {
	if settings.MockDelay < 0 {
		return fmt.Errorf("inference.mockdelay must not be negative")
	}
	if settings.Confidence < 0 || settings.Confidence > 1 {
		return fmt.Errorf("inference.confidence must be between 0 and 1")
	}
	return nil
}

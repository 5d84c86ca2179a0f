package conf

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSettings returns a settings struct that passes validation.
func validSettings() *Settings {
	return &Settings{
		WebServer: WebServerSettings{Enabled: true, Port: "8080"},
		Output: OutputSettings{
			SQLite: SQLiteSettings{Enabled: true, Path: "pneumoscan.db"},
		},
		Inference: InferenceSettings{
			MockDelay:      1500 * time.Millisecond,
			Classification: "Bacterial Pneumonia",
			Confidence:     0.87,
		},
	}
}

func TestValidateSettings(t *testing.T) {
	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettingsErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"invalid port", func(s *Settings) { s.WebServer.Port = "not-a-port" }},
		{"port out of range", func(s *Settings) { s.WebServer.Port = "70000" }},
		{"no backend enabled", func(s *Settings) { s.Output.SQLite.Enabled = false }},
		{"both backends enabled", func(s *Settings) { s.Output.MySQL.Enabled = true }},
		{"empty sqlite path", func(s *Settings) { s.Output.SQLite.Path = "" }},
		{"negative mock delay", func(s *Settings) { s.Inference.MockDelay = -time.Second }},
		{"confidence above one", func(s *Settings) { s.Inference.Confidence = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := validSettings()
			tt.mutate(settings)

			err := ValidateSettings(settings)
			require.Error(t, err)

			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Errors)
		})
	}
}

// TestValidateSettingsDisabledWebServer tests that the port is not validated
// when the web server is disabled.
func TestValidateSettingsDisabledWebServer(t *testing.T) {
	settings := validSettings()
	settings.WebServer.Enabled = false
	settings.WebServer.Port = ""

	require.NoError(t, ValidateSettings(settings))
}

// TestLoadDefaults tests that loading without a config file applies defaults.
func TestLoadDefaults(t *testing.T) {
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "PneumoScan-Go", settings.Main.Name)
	assert.Equal(t, "8080", settings.WebServer.Port)
	assert.Equal(t, "assets/worker.js", settings.WebServer.WorkerScript)
	assert.True(t, settings.Output.SQLite.Enabled)
	assert.False(t, settings.Output.MySQL.Enabled)
	assert.Equal(t, "pneumoscan.db", settings.Output.SQLite.Path)
	assert.True(t, settings.Registry.AutoSeed)
	assert.Equal(t, 1500*time.Millisecond, settings.Inference.MockDelay)
	assert.Equal(t, "Bacterial Pneumonia", settings.Inference.Classification)
	assert.InDelta(t, 0.87, settings.Inference.Confidence, 0.001)
}

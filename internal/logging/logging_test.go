package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutput(t *testing.T) {
	var structured, human bytes.Buffer
	SetOutput(&structured, &human)

	Info("structured message", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &entry))
	assert.Equal(t, "structured message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

// TestTraceLevelName tests that the custom trace level renders by name.
func TestTraceLevelName(t *testing.T) {
	var structured, human bytes.Buffer
	initWithWriters(&structured, &human, LevelTrace, LevelTrace)

	Trace("trace message")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &entry))
	assert.Equal(t, "TRACE", entry["level"])
}

func TestForService(t *testing.T) {
	var structured, human bytes.Buffer
	SetOutput(&structured, &human)

	logger := ForService("api")
	require.NotNil(t, logger)
	logger.Info("service message")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &entry))
	assert.Equal(t, "api", entry["service"])
}

// TestNewFileLogger tests file logger creation including directory creation.
func TestNewFileLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "web.log")

	logger, closeFunc, err := NewFileLogger(logPath, "api", slog.LevelInfo)
	require.NoError(t, err)
	require.NotNil(t, logger)
	t.Cleanup(func() { _ = closeFunc() })

	logger.Info("file message", "key", "value")
	require.NoError(t, closeFunc())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "file message", entry["msg"])
	assert.Equal(t, "api", entry["service"])
}

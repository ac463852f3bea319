package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON, Level: slog.LevelInfo})

	log.Info("progress saved", "books", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "progress saved", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 2, entry["books"])
}

func TestNew_TextIsDefault(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf})

	log.Info("library loaded")

	assert.Contains(t, buf.String(), "msg=\"library loaded\"")
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Level: slog.LevelWarn})

	log.Info("hidden")
	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_ShortensSource(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON, AddSource: true})

	log.Info("with source")

	var entry struct {
		Source struct {
			File string `json:"file"`
		} `json:"source"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "logger_test.go", entry.Source.File)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("dropped") })
}

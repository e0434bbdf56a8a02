package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		err  bool
	}{
		{"debug", slog.LevelDebug, false},
		{" INFO ", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.err, err != nil)
		})
	}
}

func TestTextLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, "text")

	logger.Infof("usb", "acquired %s", "g1")
	logger.Debugf("usb", "hidden")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, `msg="acquired g1"`)
	assert.Contains(t, out, "component=usb")
	assert.NotContains(t, out, "hidden")
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug, "json")

	logger.Errorf("scene", "open failed: %v", "nope")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "scene", entry["component"])
	assert.Equal(t, "open failed: nope", entry["msg"])
}

func TestDiscardAndNil(t *testing.T) {
	var nilLogger *Logger
	assert.NotPanics(t, func() {
		Discard().Errorf("x", "y")
		nilLogger.Infof("x", "y")
	})
}

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{level: "", wantDebug: false, wantInfo: true},
		{level: "debug", wantDebug: true, wantInfo: true},
		{level: "INFO", wantDebug: false, wantInfo: true},
		{level: "warn", wantDebug: false, wantInfo: false},
		{level: "error", wantDebug: false, wantInfo: false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Options{Level: tt.level, Output: &buf})

			logger.Debug("debug line")
			logger.Info("info line")

			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "debug line"))
			assert.Equal(t, tt.wantInfo, strings.Contains(buf.String(), "info line"))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Format: "json", Output: &buf})

	logger.Info("contact created", "id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "contact created", entry["msg"])
	assert.Equal(t, "abc", entry["id"])
}

func TestNew_InvalidValuesFallBack(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "loud", Format: "yaml", Output: &buf})

	out := buf.String()
	assert.Contains(t, out, "could not parse log level")
	assert.Contains(t, out, "could not parse log format")

	buf.Reset()
	logger.Info("still works")
	assert.Contains(t, buf.String(), "level=INFO")
}

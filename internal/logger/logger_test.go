package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output: %s", buf.String())
	return entry
}

func TestNew_Environments(t *testing.T) {
	for _, env := range []string{"development", "production", "test"} {
		t.Run(env, func(t *testing.T) {
			log := New(env)
			require.NotNil(t, log)
			require.NotNil(t, log.GetZerolog())
		})
	}
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  zerolog.Level
	}{
		{"development default", "development", "", zerolog.DebugLevel},
		{"production default", "production", "", zerolog.InfoLevel},
		{"explicit warn", "development", "warn", zerolog.WarnLevel},
		{"explicit upper case", "production", "DEBUG", zerolog.DebugLevel},
		{"unknown falls back", "production", "loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveLevel(tt.env, tt.level))
		})
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.Debug("lot lookup", map[string]interface{}{"street": "Rua A"})
	assert.Empty(t, buf.String(), "debug should be filtered at info level")

	log.Info("lot created", map[string]interface{}{"lot_id": "l-1"})
	entry := decode(t, &buf)
	assert.Equal(t, "lot created", entry["message"])
	assert.Equal(t, "l-1", entry["lot_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")

	log.Debug("debug message", map[string]interface{}{"rooms": 2})
	entry := decode(t, &buf)
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, float64(2), entry["rooms"])

	buf.Reset()
	log.Warn("address rejected", map[string]interface{}{"field": "city"})
	entry = decode(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "city", entry["field"])
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "")

	log.Error("failed to create property", errors.New("connection reset"), map[string]interface{}{
		"lot_id": "l-1",
	})

	entry := decode(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "connection reset", entry["error"])
	assert.Equal(t, "l-1", entry["lot_id"])
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "").With(map[string]interface{}{
		"component": "resolver",
	})

	log.Info("resolved", nil)

	entry := decode(t, &buf)
	assert.Equal(t, "resolver", entry["component"])
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "").WithRequestID("req-12345")

	log.Info("request received", nil)

	entry := decode(t, &buf)
	assert.Equal(t, "req-12345", entry["request_id"])
}

func TestNilFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "")

	assert.NotPanics(t, func() { log.Info("message with nil fields", nil) })
	assert.Contains(t, buf.String(), "message with nil fields")
}

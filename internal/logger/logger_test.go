package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.WarnLevel,
		"":        zapcore.WarnLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "info", "json")
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("api call", zap.String("path", "price/calc"))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "api call", entry["msg"])
	assert.Equal(t, "price/calc", entry["path"])
	assert.Contains(t, entry, "ts")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn", "console")
	require.NoError(t, err)

	log.Info("skipped")
	log.Warn("slow call")

	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "slow call")
	assert.NotContains(t, buf.String(), "skipped")
}

func TestNewWithWriter_UnknownFormat(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

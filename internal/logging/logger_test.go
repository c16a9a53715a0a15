package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(99).String())
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf})

	logger.WithComponent("build").
		With("keymap", "ferris-sweep-qwerty").
		Warn(context.Background(), errors.New("no layers"), "Keymap skipped", "layers", 0)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Keymap skipped", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "build", record["component"])
	assert.Equal(t, "ferris-sweep-qwerty", record["keymap"])
	assert.Equal(t, "no layers", record["error"])
	assert.EqualValues(t, 0, record["layers"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelWarn, Output: &buf})

	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "hidden too")
	assert.Empty(t, buf.String())

	logger.Error(context.Background(), nil, "shown")
	assert.True(t, strings.Contains(buf.String(), "shown"))
}

func TestOddFieldsAreIgnored(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Output: &buf})

	logger.Info(context.Background(), "message", "dangling")
	logger.Info(context.Background(), "message", 42, "value")

	assert.NotContains(t, buf.String(), "dangling")
	assert.NotContains(t, buf.String(), "value")
}

func TestNop(t *testing.T) {
	logger := Nop().With("a", 1).WithComponent("x")
	assert.NotPanics(t, func() {
		logger.Info(context.Background(), "nothing")
		logger.Error(context.Background(), errors.New("e"), "nothing")
	})
}

func TestPerfLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "json", Output: &buf})

	StartOperation(logger, "catalog").End(context.Background(), "keymaps", 2)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "catalog", record["operation"])
	assert.EqualValues(t, 2, record["keymaps"])
	assert.Contains(t, record, "duration_ms")
}

package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/codenameuriel/exo-intel/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWithFormat_JSONRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithFormat(&buf, logging.FormatJSON, slog.LevelInfo)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("run failed", "error", "boom")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run failed", entry["msg"])
	assert.Equal(t, "boom", entry["err"])
	assert.NotContains(t, entry, "error")
}

func TestNewWithFormat_Unknown(t *testing.T) {
	_, err := logging.NewWithFormat(&bytes.Buffer{}, "xml", slog.LevelInfo)
	assert.Error(t, err)
}

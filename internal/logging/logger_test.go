package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_JSONLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Format: "json", Output: &buf})

	logger.Info("ignored")
	assert.Zero(t, buf.Len())

	logger.Warn("kept", "reason", "test")
	entry := logLine(t, &buf)
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "test", entry["reason"])
}

func TestNewLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "chatty", Format: "json", Output: &buf})

	logger.Debug("ignored")
	assert.Zero(t, buf.Len())

	logger.Info("kept")
	assert.NotZero(t, buf.Len())
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: "json", Output: &buf})

	logger.WithRunID("abc-123").Info("scoped")
	entry := logLine(t, &buf)
	assert.Equal(t, "abc-123", entry["run_id"])
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: "json", Output: &buf})

	logger.WithFields("component", "watch").Info("scoped")
	entry := logLine(t, &buf)
	assert.Equal(t, "watch", entry["component"])
}

func TestContextRoundTrip(t *testing.T) {
	logger := NewLogger(Config{Format: "json", Output: &bytes.Buffer{}})

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	// Without a logger in context, a usable default comes back.
	fallback := FromContext(context.Background())
	require.NotNil(t, fallback)
	require.NotNil(t, fallback.Logger)
}

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatJSON, slog.LevelInfo)

	LogError(logger, "retrieval failed", errors.New("boom"), slog.String("dataset", "reanalysis-era5-land"))

	entry := decode(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "retrieval failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "reanalysis-era5-land", entry["dataset"])

	assert.NotPanics(t, func() { LogError(nil, "ignored", errors.New("x")) })
}

func TestLogOperationSkipsZeroDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatJSON, slog.LevelInfo)

	LogOperation(logger, "daily_statistics", slog.Duration("duration", 0), slog.Int("areas", 2))
	entry := decode(t, &buf)
	assert.NotContains(t, entry, "duration")
	assert.Equal(t, float64(2), entry["areas"])

	buf.Reset()
	LogOperation(logger, "daily_statistics", slog.Duration("duration", time.Second))
	assert.Contains(t, decode(t, &buf), "duration")
}

func TestLogHTTPRequest(t *testing.T) {
	var buf bytes.Buffer
	LogHTTPRequest(New(&buf, FormatJSON, slog.LevelInfo), "GET", "/healthz", 200, 1.5)

	entry := decode(t, &buf)
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/healthz", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, 1.5, entry["duration_ms"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatText, slog.LevelWarn)
	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestContextLogger(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	logger := New(&bytes.Buffer{}, FormatText, slog.LevelInfo)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

type failingCloser struct{ closed bool }

func (c *failingCloser) Close() error {
	c.closed = true
	return errors.New("disk full")
}

func TestSafeCloseWithLogging(t *testing.T) {
	var buf bytes.Buffer
	c := &failingCloser{}
	SafeCloseWithLogging(c, New(&buf, FormatJSON, slog.LevelInfo), "write netcdf")

	assert.True(t, c.closed)
	entry := decode(t, &buf)
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "write netcdf", entry["operation"])

	assert.NotPanics(t, func() { SafeCloseWithLogging(nil, nil, "noop") })
}

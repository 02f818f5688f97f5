package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("creates JSON logger with proper configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("feed decoded",
			slog.String("component", "realtime"),
			slog.Int("entities", 42))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"feed decoded"`)
		assert.Contains(t, output, `"component":"realtime"`)
		assert.Contains(t, output, `"entities":42`)
		assert.Contains(t, output, `"time":`)
	})

	t.Run("respects log level configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError creates structured error log", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "failed to fetch feed", assert.AnError,
			slog.String("url", "http://example.com"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to fetch feed"`)
		assert.Contains(t, output, `"url":"http://example.com"`)
		assert.Contains(t, output, assert.AnError.Error())
	})

	t.Run("LogOperation skips zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "feed_printed",
			slog.Int("entities", 3),
			slog.Duration("duration", 0))

		output := buf.String()
		assert.Contains(t, output, `"msg":"feed_printed"`)
		assert.Contains(t, output, `"entities":3`)
		assert.NotContains(t, output, `"duration"`)

		buf.Reset()
		LogOperation(logger, "feed_printed", slog.Duration("duration", time.Second))
		assert.Contains(t, buf.String(), `"duration"`)
	})

	t.Run("helpers tolerate nil logger", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogError(nil, "ignored", assert.AnError)
			LogOperation(nil, "ignored")
		})
	})
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("close failed") }

func TestSafeCloseWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	SafeCloseWithLogging(failingCloser{}, logger, "http_response_body")

	output := buf.String()
	assert.Contains(t, output, `"msg":"failed to close resource"`)
	assert.Contains(t, output, `"operation":"http_response_body"`)
	assert.Contains(t, output, "close failed")

	assert.NotPanics(t, func() { SafeCloseWithLogging(nil, logger, "noop") })
}

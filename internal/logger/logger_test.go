package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CustomWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.Info("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), "\"level\":\"INFO\"")
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{"production uses json", "production", true},
		{"development uses pretty", "development", false},
		{"empty uses pretty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf})
			logger.Info("test")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"test"`)
			} else {
				assert.Contains(t, buf.String(), "INF")
				assert.NotContains(t, buf.String(), `"msg"`)
			}
		})
	}
}

func TestNew_FileOutputIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	var console bytes.Buffer

	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: "pretty",
		Writer: &console,
		File:   &FileConfig{Path: path},
	})
	logger.Info("prompt created", "id", "p1")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"prompt created"`)
	assert.Contains(t, string(data), `"id":"p1"`)
	assert.Contains(t, console.String(), "prompt created")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, nil))

	logger.With("component", "store").WithGroup("req").Info("hello", "id", "p1", "q", "two words")

	out := buf.String()
	assert.Contains(t, out, "component=store")
	assert.Contains(t, out, "req.id=p1")
	assert.Contains(t, out, `req.q="two words"`)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{AddSource: true}))

	logger.Info("where")
	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1s", formatValue(slog.DurationValue(time.Second)))
	assert.Equal(t, "42", formatValue(slog.IntValue(42)))
	assert.Equal(t, "true", formatValue(slog.BoolValue(true)))
	assert.Equal(t, "2024-01-01T00:00:00Z", formatValue(slog.TimeValue(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "json", Writer: &buf})

	logger.WithError(errors.New("boom")).WithField("id", "p1").WithFields(map[string]any{"n": 2}).Debug("chained")

	out := buf.String()
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"id":"p1"`)
	assert.Contains(t, out, `"n":2`)
	assert.Same(t, logger, logger.WithError(nil))
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: "json", Writer: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

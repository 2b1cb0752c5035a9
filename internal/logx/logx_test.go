package logx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARNING "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, LevelCritical, ParseLevel("critical"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestCriticalLevelLabel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, "info", "json")

	orig := slog.Default()
	slog.SetDefault(logger)
	t.Cleanup(func() { slog.SetDefault(orig) })

	Critical(context.Background(), "local upsert failed", "reference", "ref-1")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"level":"CRITICAL"`)
	assert.Contains(t, out, `"reference":"ref-1"`)
}

func TestNew_TextFormatFiltersLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, "shown")
}

package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNew_JSONFormatInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production"})

	log.Info("feed built", "user_id", "user-1", "shelves", 4)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "production logs should be JSON: %s", out)
	assert.Contains(t, out, `"user_id":"user-1"`)
}

func TestPrettyHandler_IncludesAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: formatPretty})

	log.Warn("scorer failed", "exit_code", 2)

	out := buf.String()
	assert.Contains(t, out, "scorer failed")
	assert.Contains(t, out, "exit_code=2")
	assert.Contains(t, out, "WRN")
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: formatPretty, Level: slog.LevelWarn})

	log.Debug("should be dropped")
	log.Info("also dropped")
	assert.Empty(t, buf.String())

	log.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}

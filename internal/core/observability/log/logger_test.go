package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOptions(Options{Level: LevelDebug, Encoding: "json", Output: &buf})

	l.Info("fired", String("round", "r1"), Vector("velocity", 0, 10, 0), Int("samples", 5), Error(errors.New("boom")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fired", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "r1", entry["round"])
	assert.Equal(t, []any{0.0, 10.0, 0.0}, entry["velocity"])
	assert.Equal(t, 5.0, entry["samples"])
	assert.Equal(t, "boom", entry["error"])
}

func TestSetLevelFiltersDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOptions(Options{Level: LevelInfo, Output: &buf})
	child := l.With(String("component", "rig"))

	child.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, child.GetLevel())
	child.Debug("shown")
	assert.Contains(t, buf.String(), `"component":"rig"`)

	buf.Reset()
	l.SetLevel(LevelSilent)
	child.Error("dropped")
	assert.Zero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"WARNING": LevelWarn,
		"error":   LevelError,
		"off":     LevelSilent,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	assert.Equal(t, LevelSilent, l.GetLevel())
}

func TestConsoleEncoding(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOptions(Options{Level: LevelInfo, Encoding: "console", Output: &buf})
	l.Named("predictor").Warn("rejected")
	assert.True(t, strings.Contains(buf.String(), "WARN"))
	assert.True(t, strings.Contains(buf.String(), "predictor"))
}

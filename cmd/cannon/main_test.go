package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ballistics/internal/config"
	"github.com/zeusync/ballistics/internal/injector"
)

func timelineConfig() config.Config {
	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Timeline.Ticks = 4
	cfg.Timeline.Commands = []config.CommandConfig{{Tick: 3, Fire: true}}
	return cfg
}

func TestWithTicksKeepsScheduledCommands(t *testing.T) {
	cfg := timelineConfig()

	same, err := withTicks(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, same)

	longer := 6
	got, err := withTicks(cfg, &longer)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Timeline.Ticks)

	shorter := 2
	_, err = withTicks(cfg, &shorter)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "--ticks 2")
	assert.Contains(t, err.Error(), "tick 3 outside [0, 2)")

	negative := -1
	_, err = withTicks(cfg, &negative)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSimulateWritesSummary(t *testing.T) {
	var frames, logs, summary bytes.Buffer
	err := simulate(context.Background(), timelineConfig(), injector.Output{Frames: &frames, Logs: &logs}, &summary)
	require.NoError(t, err)

	// four predictions and one fire
	assert.Equal(t, "fired 1 round(s) over 4 tick(s); 5 event(s) published, 0 handler error(s)\n", summary.String())
	assert.NotEmpty(t, frames.String())
	assert.Empty(t, logs.String())
}

func TestSimulateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var summary bytes.Buffer
	err := simulate(ctx, timelineConfig(), injector.Output{Frames: &bytes.Buffer{}, Logs: &bytes.Buffer{}}, &summary)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summary.String())
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	path := filepath.Join(t.TempDir(), "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prediction: {max_time: 2, resolution: 8}\n"), 0o600))

	cfg, err = loadConfig(path, "debug")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Prediction.Resolution)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = loadConfig(path, "loud")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

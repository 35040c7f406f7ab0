package bus

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ballistics/internal/core/observability/log"
)

func TestLogObserverRecordsDeliveries(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(log.Options{Level: log.LevelDebug, Encoding: "json", Output: &buf})

	b := New()
	b.AddObserver(NewLogObserver(logger))
	_, _ = b.Subscribe("cannon.fired", func(Event) error { return nil })
	_, _ = b.Subscribe("cannon.aimed", func(Event) error { return errors.New("jammed") })

	require.NoError(t, b.Publish(NewEvent("cannon.fired", "rig", nil, nil)))
	require.Error(t, b.Publish(NewEvent("cannon.aimed", "rig", nil, nil)))

	out := buf.String()
	assert.Contains(t, out, `"logger":"bus"`)
	assert.Contains(t, out, `"msg":"event delivered"`)
	assert.Contains(t, out, `"event":"cannon.fired"`)
	assert.Contains(t, out, `"msg":"event handler failed"`)
	assert.Contains(t, out, "jammed")

	m := b.GetMetrics()
	assert.Equal(t, uint64(2), m.Published)
	assert.Equal(t, uint64(2), m.DeliveredHandlers)
	assert.Equal(t, uint64(1), m.Errors)
	assert.Equal(t, uint64(2), m.SubscribersActive)
}

func TestLogObserverNilLogger(t *testing.T) {
	b := New()
	b.AddObserver(NewLogObserver(nil))
	_, _ = b.Subscribe("x", func(Event) error { return nil })
	assert.NotPanics(t, func() { _ = b.Publish(NewEvent("x", "", nil, nil)) })
	assert.Equal(t, uint64(1), b.GetMetrics().Published)
}

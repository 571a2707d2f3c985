package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/pkg/metrics"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := metrics.New(reg)
	require.NoError(t, err)

	r.Command("MoveNodes", metrics.OutcomeOK)
	r.Command("MoveNodes", metrics.OutcomeOK)
	r.Command("ResizeNode", metrics.OutcomeFailed)
	r.HistoryDepth(7)
	r.Replay(metrics.DirectionUndo)
	r.Gesture("drag", metrics.OutcomeCancelled)

	commands, depth, undo, gestures := r.Collectors()
	assert.Equal(t, 2.0, testutil.ToFloat64(commands.WithLabelValues("MoveNodes", metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(commands.WithLabelValues("ResizeNode", metrics.OutcomeFailed)))
	assert.Equal(t, 7.0, testutil.ToFloat64(depth))
	assert.Equal(t, 1.0, testutil.ToFloat64(undo.WithLabelValues(metrics.DirectionUndo)))
	assert.Equal(t, 1.0, testutil.ToFloat64(gestures.WithLabelValues("drag", metrics.OutcomeCancelled)))

	n, err := testutil.GatherAndCount(reg, "flowcanvas_commands_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecorder_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)

	_, err = metrics.New(reg)
	assert.Error(t, err)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.Command("x", metrics.OutcomeOK)
		r.HistoryDepth(1)
		r.Replay(metrics.DirectionRedo)
		r.Gesture("resize", metrics.OutcomeCommitted)
	})
}

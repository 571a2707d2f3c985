package interaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
	"flowcanvas/pkg/interaction"
	"flowcanvas/pkg/selection"
)

func TestDrag_GrabOffsetScenario(t *testing.T) {
	d := &interaction.Drag{Threshold: 3}
	require.NoError(t, d.Start(map[string]geom.Point{"n": geom.Pt(100, 200)}, geom.Pt(120, 220)))

	st, ok := d.State()
	require.True(t, ok)
	assert.Equal(t, geom.Pt(-20, -20), st.GrabOffsetByNode["n"])

	pos, err := d.Update(geom.Pt(140, 240))
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(120, 220), pos["n"])

	res, ok := d.End()
	require.True(t, ok)
	assert.True(t, res.Moved)
	assert.Equal(t, geom.Pt(20, 20), res.Delta)
	assert.False(t, d.Active())
}

func TestDrag_BelowThresholdIsClick(t *testing.T) {
	d := &interaction.Drag{Threshold: 5}
	require.NoError(t, d.Start(map[string]geom.Point{"n": geom.Pt(0, 0)}, geom.Pt(10, 10)))

	pos, err := d.Update(geom.Pt(12, 13))
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(0, 0), pos["n"])

	res, _ := d.End()
	assert.False(t, res.Moved)
	assert.Equal(t, geom.Point{}, res.Delta)
}

func TestDrag_ThresholdLatches(t *testing.T) {
	d := &interaction.Drag{Threshold: 5}
	require.NoError(t, d.Start(map[string]geom.Point{"n": geom.Pt(0, 0)}, geom.Pt(0, 0)))

	_, _ = d.Update(geom.Pt(10, 0))
	pos, _ := d.Update(geom.Pt(1, 0))
	assert.Equal(t, geom.Pt(1, 0), pos["n"])
}

func TestDrag_GroupSnapsTogether(t *testing.T) {
	d := &interaction.Drag{Grid: geom.SnapGrid{Size: 10, Enabled: true}}
	require.NoError(t, d.Start(map[string]geom.Point{
		"a": geom.Pt(3, 4),
		"b": geom.Pt(57, 21),
	}, geom.Pt(0, 0)))

	pos, err := d.Update(geom.Pt(14, 26))
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(13, 34), pos["a"])
	assert.Equal(t, geom.Pt(67, 51), pos["b"])

	res, _ := d.End()
	assert.Equal(t, geom.Pt(10, 30), res.Delta)
}

func TestDrag_Guards(t *testing.T) {
	d := &interaction.Drag{}
	_, err := d.Update(geom.Pt(1, 1))
	assert.ErrorIs(t, err, interaction.ErrNoGesture)
	assert.ErrorIs(t, d.Start(nil, geom.Point{}), interaction.ErrEmptyGesture)

	require.NoError(t, d.Start(map[string]geom.Point{"n": {}}, geom.Point{}))
	assert.ErrorIs(t, d.Start(map[string]geom.Point{"m": {}}, geom.Point{}), interaction.ErrGestureActive)

	st, _ := d.State()
	assert.Equal(t, []string{"n"}, st.DraggedNodeIDs)

	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())
}

func TestResize_Anchors(t *testing.T) {
	frame := geom.R(100, 100, 120, 80)
	cases := []struct {
		anchor  geom.Anchor
		pointer geom.Point
		want    geom.Rect
	}{
		{geom.AnchorTopLeft, geom.Pt(10, 20), geom.R(100, 100, 130, 100)},
		{geom.AnchorBottomRight, geom.Pt(10, 20), geom.R(110, 120, 110, 60)},
		{geom.AnchorRight, geom.Pt(10, 20), geom.R(110, 100, 110, 80)},
		{geom.AnchorBottom, geom.Pt(10, 20), geom.R(100, 120, 120, 60)},
		{geom.AnchorCenter, geom.Pt(10, 20), geom.R(90, 80, 140, 120)},
	}

	for _, tc := range cases {
		t.Run(tc.anchor.String(), func(t *testing.T) {
			r := &interaction.Resize{}
			require.NoError(t, r.Start("n", frame, tc.anchor, geom.Pt(0, 0)))
			got, err := r.Update(tc.pointer)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			res, ok := r.End()
			require.True(t, ok)
			assert.Equal(t, tc.want.Size, res.Size)
			assert.True(t, res.Changed)
		})
	}
}

func TestResize_FloorAppliedAfterDelta(t *testing.T) {
	r := &interaction.Resize{MinSize: geom.Sz(20, 20)}
	require.NoError(t, r.Start("n", geom.R(0, 0, 100, 100), geom.AnchorTopLeft, geom.Pt(100, 100)))

	got, _ := r.Update(geom.Pt(-500, 50))
	assert.Equal(t, geom.Sz(20, 50), got.Size)

	// coming back from the overshoot follows the pointer again
	got, _ = r.Update(geom.Pt(90, 90))
	assert.Equal(t, geom.Sz(90, 90), got.Size)
}

func TestResize_CancelLeavesNothing(t *testing.T) {
	r := &interaction.Resize{}
	require.NoError(t, r.Start("n", geom.R(0, 0, 10, 10), geom.AnchorTopLeft, geom.Pt(0, 0)))
	assert.ErrorIs(t, r.Start("m", geom.R(0, 0, 10, 10), geom.AnchorTopLeft, geom.Pt(0, 0)), interaction.ErrGestureActive)

	_, _ = r.Update(geom.Pt(50, 50))
	assert.True(t, r.Cancel())
	_, ok := r.End()
	assert.False(t, ok)
}

func connectCanvas() *graph.Canvas {
	c := graph.NewCanvas()
	c.AddBox(graph.Box{BoxID: "a", X: 0, Y: 0, Width: 100, Height: 50})
	c.AddBox(graph.Box{BoxID: "b", X: 200, Y: 0, Width: 100, Height: 50})
	return c
}

func TestConnect_ResolvesToEdge(t *testing.T) {
	c := connectCanvas()
	a, _ := c.Box("a")
	out, _ := graph.FindPort(a, "out")

	conn := &interaction.Connect{CaptureRadius: 15}
	require.NoError(t, conn.Start("a", out, graph.PortPosition(a, out), geom.Pt(100, 25)))
	assert.ErrorIs(t, conn.Start("a", out, geom.Point{}, geom.Point{}), interaction.ErrGestureActive)

	st, err := conn.Update(geom.Pt(150, 25), graph.HostPortLookup(c))
	require.NoError(t, err)
	assert.False(t, st.IsValidCandidate)

	st, err = conn.Update(geom.Pt(195, 30), graph.HostPortLookup(c))
	require.NoError(t, err)
	assert.True(t, st.IsValidCandidate)
	assert.Equal(t, "b", st.CandidateNodeID)

	req, outcome := conn.End()
	assert.Equal(t, interaction.ConnectCreated, outcome)
	assert.Equal(t, interaction.EdgeRequest{SourceNodeID: "a", SourcePortID: "out", TargetNodeID: "b", TargetPortID: "in"}, req)
	assert.False(t, conn.Active())
}

func TestConnect_FromInputPortIsReoriented(t *testing.T) {
	c := connectCanvas()
	b, _ := c.Box("b")
	in, _ := graph.FindPort(b, "in")

	conn := &interaction.Connect{CaptureRadius: 15}
	require.NoError(t, conn.Start("b", in, graph.PortPosition(b, in), geom.Pt(200, 25)))
	_, err := conn.Update(geom.Pt(102, 24), graph.HostPortLookup(c))
	require.NoError(t, err)

	req, outcome := conn.End()
	assert.Equal(t, interaction.ConnectCreated, outcome)
	assert.Equal(t, "a", req.SourceNodeID)
	assert.Equal(t, "out", req.SourcePortID)
	assert.Equal(t, "b", req.TargetNodeID)
}

func TestConnect_ReleaseHook(t *testing.T) {
	c := connectCanvas()
	a, _ := c.Box("a")
	out, _ := graph.FindPort(a, "out")

	t.Run("no hook cancels", func(t *testing.T) {
		conn := &interaction.Connect{CaptureRadius: 15}
		require.NoError(t, conn.Start("a", out, geom.Pt(100, 25), geom.Pt(100, 25)))
		_, outcome := conn.End()
		assert.Equal(t, interaction.ConnectCancelled, outcome)
		assert.False(t, conn.Active())
	})

	t.Run("keep previewing", func(t *testing.T) {
		conn := &interaction.Connect{
			CaptureRadius: 15,
			OnRelease: func(interaction.ConnectionState) interaction.ReleaseDecision {
				return interaction.ReleaseDecision{Action: interaction.ReleaseKeepPreviewing}
			},
		}
		require.NoError(t, conn.Start("a", out, geom.Pt(100, 25), geom.Pt(100, 25)))
		_, outcome := conn.End()
		assert.Equal(t, interaction.ConnectPreviewing, outcome)
		assert.True(t, conn.Active())
	})

	t.Run("programmatic completion", func(t *testing.T) {
		conn := &interaction.Connect{
			CaptureRadius: 15,
			OnRelease: func(interaction.ConnectionState) interaction.ReleaseDecision {
				return interaction.ReleaseDecision{
					Action: interaction.ReleaseComplete,
					Target: graph.PortCandidate{NodeID: "b", PortID: "in"},
				}
			},
		}
		require.NoError(t, conn.Start("a", out, geom.Pt(100, 25), geom.Pt(100, 25)))
		req, outcome := conn.End()
		assert.Equal(t, interaction.ConnectCreated, outcome)
		assert.Equal(t, "b", req.TargetNodeID)
	})
}

func TestMarquee(t *testing.T) {
	c := connectCanvas()
	sel := selection.New()
	m := &interaction.Marquee{Sink: sel}

	require.NoError(t, m.Start(geom.Pt(-10, -10), true))
	assert.ErrorIs(t, m.Start(geom.Point{}, false), interaction.ErrGestureActive)

	_, err := m.Update(geom.Pt(50, 60))
	require.NoError(t, err)
	rect, ok := sel.BoxRect()
	require.True(t, ok)
	assert.Equal(t, geom.R(-10, -10, 60, 70), rect)

	res, ok := m.End(c.Nodes())
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, res.NodeIDs)
	assert.True(t, res.Additive)

	_, ok = sel.BoxRect()
	assert.False(t, ok)
}

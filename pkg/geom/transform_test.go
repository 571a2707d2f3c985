package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/pkg/geom"
)

const tol = 1e-9

func TestTransform_ScreenCanvasScenario(t *testing.T) {
	tr := geom.Transform{OffsetX: 50, OffsetY: 30, Scale: 2}

	assert.Equal(t, geom.Pt(100, 100), tr.ScreenToCanvas(geom.Pt(250, 230)))
	assert.Equal(t, geom.Pt(250, 230), tr.CanvasToScreen(geom.Pt(100, 100)))
}

func TestTransform_RoundTrip(t *testing.T) {
	transforms := []geom.Transform{
		geom.Identity(),
		{OffsetX: 50, OffsetY: 30, Scale: 2},
		{OffsetX: -12.5, OffsetY: 401, Scale: 0.37},
		{OffsetX: 1e4, OffsetY: -1e4, Scale: 7.9},
	}
	points := []geom.Point{{}, geom.Pt(1, 1), geom.Pt(-333.3, 12.75), geom.Pt(1e5, -2e5)}

	for _, tr := range transforms {
		for _, p := range points {
			back := tr.ScreenToCanvas(tr.CanvasToScreen(p))
			assert.True(t, back.ApproxEqual(p, 1e-6), "transform %+v point %+v got %+v", tr, p, back)
		}
	}
}

func TestTransform_ZoomPivot(t *testing.T) {
	cases := []struct {
		name   string
		tr     geom.Transform
		factor float64
		about  geom.Point
	}{
		{"zoom in about origin", geom.Identity(), 2, geom.Pt(0, 0)},
		{"zoom in about point", geom.Transform{OffsetX: 50, OffsetY: 30, Scale: 2}, 1.5, geom.Pt(400, 300)},
		{"zoom out", geom.Transform{OffsetX: -10, OffsetY: 5, Scale: 1.2}, 0.5, geom.Pt(17, 23)},
		{"clamped", geom.Identity(), 100, geom.Pt(200, 100)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			under := tc.tr.ScreenToCanvas(tc.about)
			zoomed := tc.tr.ZoomedBy(tc.factor, tc.about, 0.1, 4)
			assert.True(t, zoomed.CanvasToScreen(under).ApproxEqual(tc.about, 1e-6))
			assert.LessOrEqual(t, zoomed.Scale, 4.0)
		})
	}
}

func TestTransform_ZoomSequenceNoDrift(t *testing.T) {
	start := geom.Transform{OffsetX: 13, OffsetY: -7, Scale: 1}
	about := geom.Pt(321, 123)
	factors := []float64{1.1, 1.25, 0.8, 2, 0.5, 1 / 1.1}

	tr := start
	for _, f := range factors {
		tr = tr.ZoomedBy(f, about, 0.01, 100)
	}
	assert.True(t, tr.ApproxEqual(start, 1e-9), "got %+v", tr)
}

func TestTransform_ClampNeverNonPositive(t *testing.T) {
	tr := geom.Identity().ZoomedBy(0, geom.Pt(10, 10), 0, 4)
	require.Greater(t, tr.Scale, 0.0)

	tr = geom.Identity().ZoomedTo(-3, geom.Pt(10, 10), -1, 4)
	require.Greater(t, tr.Scale, 0.0)
}

func TestTransform_SizeAndRectConversions(t *testing.T) {
	tr := geom.Transform{OffsetX: 10, OffsetY: 20, Scale: 2}

	assert.Equal(t, geom.Sz(20, 40), tr.CanvasToScreenSize(geom.Sz(10, 20)))
	assert.Equal(t, geom.Sz(10, 20), tr.ScreenToCanvasSize(geom.Sz(20, 40)))
	assert.Equal(t, geom.R(30, 60, 20, 40), tr.CanvasToScreenRect(geom.R(10, 20, 10, 20)))
	assert.Equal(t, geom.R(10, 20, 10, 20), tr.ScreenToCanvasRect(geom.R(30, 60, 20, 40)))
}

func TestTransform_Pan(t *testing.T) {
	tr := geom.Transform{OffsetX: 1, OffsetY: 2, Scale: 3}.PannedBy(geom.Pt(10, -5))
	assert.Equal(t, geom.Transform{OffsetX: 11, OffsetY: -3, Scale: 3}, tr)
}

func TestSnapGrid(t *testing.T) {
	g := geom.SnapGrid{Size: 10, Enabled: true}
	assert.Equal(t, geom.Pt(20, -10), g.Snap(geom.Pt(17, -8)))
	assert.Equal(t, geom.Sz(130, 80), g.SnapSize(geom.Sz(126, 84)))

	off := geom.SnapGrid{Size: 10}
	assert.Equal(t, geom.Pt(17, -8), off.Snap(geom.Pt(17, -8)))
	zero := geom.SnapGrid{Enabled: true}
	assert.Equal(t, geom.Pt(17, -8), zero.Snap(geom.Pt(17, -8)))
}

func TestRect(t *testing.T) {
	a := geom.R(0, 0, 10, 10)
	b := geom.R(5, -5, 10, 10)

	assert.Equal(t, geom.R(0, -5, 15, 15), a.Union(b))
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(geom.R(11, 11, 1, 1)))
	assert.True(t, a.Contains(geom.Pt(10, 10)))
	assert.Equal(t, geom.R(0, 0, 4, 3), geom.RectFromPoints(geom.Pt(4, 0), geom.Pt(0, 3)))

	_, ok := geom.Bounds(nil)
	assert.False(t, ok)
}

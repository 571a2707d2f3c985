package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/pkg/geom"
)

func TestAnchor_PositionRule(t *testing.T) {
	frame := geom.R(100, 100, 120, 80)
	grown := geom.Sz(240, 160) // delta (120, 80)

	expected := map[geom.Anchor]geom.Point{
		geom.AnchorTopLeft:     geom.Pt(100, 100),
		geom.AnchorTop:         geom.Pt(100, 100),
		geom.AnchorLeft:        geom.Pt(100, 100),
		geom.AnchorTopRight:    geom.Pt(-20, 100),
		geom.AnchorRight:       geom.Pt(-20, 100),
		geom.AnchorBottomLeft:  geom.Pt(100, 20),
		geom.AnchorBottom:      geom.Pt(100, 20),
		geom.AnchorBottomRight: geom.Pt(-20, 20),
		geom.AnchorCenter:      geom.Pt(40, 60),
	}

	for _, a := range geom.Anchors {
		t.Run(a.String(), func(t *testing.T) {
			got := a.Resize(frame, grown)
			assert.Equal(t, expected[a], got.Origin)
			assert.Equal(t, grown, got.Size)
		})
	}
}

func TestAnchor_BottomRightShrinkScenario(t *testing.T) {
	got := geom.AnchorBottomRight.Resize(geom.R(100, 100, 120, 80), geom.Sz(60, 40))
	assert.Equal(t, geom.R(160, 140, 60, 40), got)
}

func TestAnchor_ResizeBackRestores(t *testing.T) {
	frame := geom.R(37, -12, 120, 80)
	for _, a := range geom.Anchors {
		t.Run(a.String(), func(t *testing.T) {
			there := a.Resize(frame, geom.Sz(64, 250))
			back := a.Resize(there, frame.Size)
			assert.Equal(t, frame, back)
		})
	}
}

func TestAnchor_SignedDelta(t *testing.T) {
	d := geom.Pt(10, 20)
	cases := map[geom.Anchor]geom.Size{
		geom.AnchorTopLeft:     geom.Sz(10, 20),
		geom.AnchorTopRight:    geom.Sz(-10, 20),
		geom.AnchorBottomLeft:  geom.Sz(10, -20),
		geom.AnchorBottomRight: geom.Sz(-10, -20),
		geom.AnchorTop:         geom.Sz(0, 20),
		geom.AnchorBottom:      geom.Sz(0, -20),
		geom.AnchorLeft:        geom.Sz(10, 0),
		geom.AnchorRight:       geom.Sz(-10, 0),
		geom.AnchorCenter:      geom.Sz(20, 40),
	}
	for a, want := range cases {
		assert.Equal(t, want, a.SignedDelta(d), a.String())
	}
}

func TestParseAnchor(t *testing.T) {
	for _, a := range geom.Anchors {
		parsed, err := geom.ParseAnchor(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}

	a, err := geom.ParseAnchor("bottom-right")
	require.NoError(t, err)
	assert.Equal(t, geom.AnchorBottomRight, a)

	_, err = geom.ParseAnchor("middle")
	assert.Error(t, err)
}

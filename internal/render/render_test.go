package render_test

import (
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/internal/render"
	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/minimap"
)

func TestLines(t *testing.T) {
	marquee := geom.R(0, 0, 3, 3)

	tests := []struct {
		name   string
		snap   editor.Snapshot
		width  int
		height int
		want   []string
	}{
		{
			name: "box with label",
			snap: editor.Snapshot{
				Transform: geom.Identity(),
				Nodes:     []editor.NodeView{{ID: "a", Frame: geom.R(1, 1, 6, 4), Label: "hi"}},
			},
			width: 10, height: 6,
			want: []string{
				"          ",
				" +----+   ",
				" |hi  |   ",
				" |    |   ",
				" +----+   ",
				"          ",
			},
		},
		{
			name: "selected box and clipped label",
			snap: editor.Snapshot{
				Transform: geom.Identity(),
				Nodes:     []editor.NodeView{{ID: "a", Frame: geom.R(0, 0, 5, 3), Label: "long label", Selected: true}},
			},
			width: 6, height: 3,
			want: []string{
				"##### ",
				"#lon# ",
				"##### ",
			},
		},
		{
			name: "zoomed",
			snap: editor.Snapshot{
				Transform: geom.Transform{Scale: 2},
				Nodes:     []editor.NodeView{{ID: "a", Frame: geom.R(1, 1, 3, 2)}},
			},
			width: 9, height: 7,
			want: []string{
				"         ",
				"         ",
				"  +----+ ",
				"  |    | ",
				"  |    | ",
				"  +----+ ",
				"         ",
			},
		},
		{
			name: "edge with arrow",
			snap: editor.Snapshot{
				Transform: geom.Identity(),
				Edges:     []editor.EdgeView{{ID: "e", From: geom.Pt(0, 0), To: geom.Pt(4, 2)}},
			},
			width: 5, height: 3,
			want: []string{
				"----+",
				"    |",
				"    v",
			},
		},
		{
			name: "marquee",
			snap: editor.Snapshot{Transform: geom.Identity(), BoxRect: &marquee},
			width: 4, height: 3,
			want: []string{
				"... ",
				": : ",
				"... ",
			},
		},
		{
			name: "connection preview",
			snap: editor.Snapshot{
				Transform:  geom.Identity(),
				Connection: &editor.ConnectionView{From: geom.Pt(0, 1), To: geom.Pt(3, 1)},
			},
			width: 4, height: 2,
			want: []string{
				"    ",
				"...>",
			},
		},
		{
			name: "port marker",
			snap: editor.Snapshot{
				Transform: geom.Identity(),
				Nodes: []editor.NodeView{{
					ID:    "a",
					Frame: geom.R(0, 0, 4, 3),
					Ports: []editor.PortView{{ID: "out", Position: geom.Pt(4, 1)}},
				}},
			},
			width: 5, height: 3,
			want: []string{
				"+--+ ",
				"|  o ",
				"+--+ ",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render.Lines(tt.snap, tt.width, tt.height))
		})
	}
}

func TestLinesClampsSize(t *testing.T) {
	assert.Equal(t, []string{" "}, render.Lines(editor.Snapshot{Transform: geom.Identity()}, 0, -3))
}

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestGridMatchesLinesWithoutStyling(t *testing.T) {
	snap := editor.Snapshot{
		Transform: geom.Identity(),
		Nodes: []editor.NodeView{
			{ID: "a", Frame: geom.R(0, 0, 5, 3), Label: "a", Selected: true},
			{ID: "b", Frame: geom.R(6, 0, 5, 3), Label: "b", Preview: true},
		},
		Edges: []editor.EdgeView{{ID: "e", From: geom.Pt(5, 1), To: geom.Pt(6, 1), Selected: true}},
	}
	styled := render.Grid(snap, 12, 4, render.DefaultStyles())
	plain := render.Lines(snap, 12, 4)
	require.Len(t, styled, len(plain))
	for i := range plain {
		assert.Equal(t, plain[i], ansi.ReplaceAllString(styled[i], ""))
	}
}

func TestExportText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.txt")
	snap := editor.Snapshot{
		Transform: geom.Identity(),
		Nodes:     []editor.NodeView{{ID: "a", Frame: geom.R(0, 0, 4, 3), Label: "ok"}},
	}
	require.NoError(t, render.ExportText(path, snap, 6, 3))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "+--+\n|ok|\n+--+\n", string(data))
}

func TestImage(t *testing.T) {
	snap := editor.Snapshot{
		Transform: geom.Transform{OffsetX: 500, Scale: 3},
		Nodes:     []editor.NodeView{{ID: "a", Frame: geom.R(100, 100, 40, 20), Label: "x"}},
	}

	img, err := render.Image(snap, render.ImageOptions{Scale: 1, Padding: 10})
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx(), "viewport is ignored")
	assert.Equal(t, 40, img.Bounds().Dy())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
	r, _, _, _ = img.At(30, 10).RGBA()
	assert.Less(t, r, uint32(0xffff), "top border is stroked")

	img, err = render.Image(snap, render.ImageOptions{Scale: 2, Padding: 10})
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
}

func TestImageEmpty(t *testing.T) {
	_, err := render.Image(editor.Snapshot{}, render.DefaultImageOptions())
	assert.ErrorIs(t, err, render.ErrEmpty)
}

func TestPNG(t *testing.T) {
	snap := editor.Snapshot{
		Nodes: []editor.NodeView{
			{ID: "a", Frame: geom.R(0, 0, 50, 30), Label: "one\ntwo", Selected: true},
			{ID: "b", Frame: geom.R(100, 0, 50, 30)},
		},
		Edges: []editor.EdgeView{{ID: "e", From: geom.Pt(50, 15), To: geom.Pt(100, 15)}},
	}
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, render.PNG(snap, path, render.DefaultImageOptions()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 190, img.Bounds().Dx())
	assert.Equal(t, 70, img.Bounds().Dy())
}

func TestMinimap(t *testing.T) {
	snap := editor.Snapshot{Nodes: []editor.NodeView{{ID: "a", Frame: geom.R(50, 50, 50, 50)}}}
	p := minimap.New(geom.R(50, 50, 50, 50), geom.R(0, 0, 50, 50), geom.Sz(10, 10), 0)

	want := []string{
		".....     ",
		":   :     ",
		":   :     ",
		":   :     ",
		".....     ",
		"     #####",
		"     #####",
		"     #####",
		"     #####",
		"     #####",
	}
	assert.Equal(t, want, render.Minimap(snap, p))
}

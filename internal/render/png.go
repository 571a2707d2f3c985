package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/geom"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("nothing to export")

// ImageOptions controls PNG export. Scale is pixels per canvas unit.
type ImageOptions struct {
	Scale    float64
	Padding  float64
	FontSize float64
}

func DefaultImageOptions() ImageOptions {
	return ImageOptions{Scale: 1, Padding: 20, FontSize: 12}
}

var (
	selectedColor = color.RGBA{R: 0x1e, G: 0x5a, B: 0xc8, A: 0xff}
	portColor     = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// Bounds returns the canvas rect covering every node and edge endpoint.
func Bounds(s editor.Snapshot) (geom.Rect, bool) {
	rects := make([]geom.Rect, 0, len(s.Nodes)+2*len(s.Edges))
	for _, n := range s.Nodes {
		rects = append(rects, n.Frame)
	}
	for _, e := range s.Edges {
		rects = append(rects, geom.Rect{Origin: e.From}, geom.Rect{Origin: e.To})
	}
	return geom.Bounds(rects)
}

// Image draws the whole diagram in canvas space, ignoring the viewport.
func Image(s editor.Snapshot, opts ImageOptions) (image.Image, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultImageOptions().FontSize
	}
	bounds, ok := Bounds(s)
	if !ok {
		return nil, ErrEmpty
	}
	bounds = bounds.Inset(-opts.Padding)
	origin := bounds.Origin

	width := int(math.Ceil(bounds.Size.Width * opts.Scale))
	height := int(math.Ceil(bounds.Size.Height * opts.Scale))
	dc := gg.NewContext(max(width, 1), max(height, 1))
	dc.SetColor(color.White)
	dc.Clear()

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	px := func(p geom.Point) (float64, float64) {
		return (p.X - origin.X) * opts.Scale, (p.Y - origin.Y) * opts.Scale
	}

	for _, e := range s.Edges {
		dc.SetLineWidth(1)
		dc.SetColor(color.Black)
		if e.Selected {
			dc.SetLineWidth(2)
			dc.SetColor(selectedColor)
		}
		x1, y1 := px(e.From)
		x2, y2 := px(e.To)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
		drawArrow(dc, x1, y1, x2, y2)
	}

	lineHeight := dc.FontHeight() * 1.2
	for _, n := range s.Nodes {
		x, y := px(n.Frame.Origin)
		w, h := n.Frame.Size.Width*opts.Scale, n.Frame.Size.Height*opts.Scale

		dc.SetColor(color.White)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()

		dc.SetLineWidth(1)
		dc.SetColor(color.Black)
		if n.Selected {
			dc.SetLineWidth(2)
			dc.SetColor(selectedColor)
		}
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()

		dc.SetColor(color.Black)
		if n.Label != "" {
			for i, line := range strings.Split(n.Label, "\n") {
				dc.DrawString(line, x+4, y+4+lineHeight*float64(i)+dc.FontHeight())
			}
		}

		dc.SetColor(portColor)
		for _, p := range n.Ports {
			cx, cy := px(p.Position)
			dc.DrawCircle(cx, cy, 2)
			dc.Fill()
		}
	}
	return dc.Image(), nil
}

// PNG writes the diagram to path.
func PNG(s editor.Snapshot, path string, opts ImageOptions) error {
	img, err := Image(s, opts)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

func drawArrow(dc *gg.Context, fx, fy, tx, ty float64) {
	dx, dy := tx-fx, ty-fy
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const size, spread = 6.0, 0.5
	dc.MoveTo(tx, ty)
	dc.LineTo(tx-size*dx+size*dy*spread, ty-size*dy-size*dx*spread)
	dc.LineTo(tx-size*dx-size*dy*spread, ty-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.Fill()
}

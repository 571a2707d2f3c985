package geom

import (
	"fmt"
	"strings"
)

// Anchor names the point of a node frame that stays fixed while the node resizes.
type Anchor int

const (
	AnchorTopLeft Anchor = iota
	AnchorTop
	AnchorTopRight
	AnchorLeft
	AnchorCenter
	AnchorRight
	AnchorBottomLeft
	AnchorBottom
	AnchorBottomRight
)

// Anchors lists all nine anchors in row-major order.
var Anchors = []Anchor{
	AnchorTopLeft, AnchorTop, AnchorTopRight,
	AnchorLeft, AnchorCenter, AnchorRight,
	AnchorBottomLeft, AnchorBottom, AnchorBottomRight,
}

var anchorNames = map[Anchor]string{
	AnchorTopLeft:     "topLeft",
	AnchorTop:         "top",
	AnchorTopRight:    "topRight",
	AnchorLeft:        "left",
	AnchorCenter:      "center",
	AnchorRight:       "right",
	AnchorBottomLeft:  "bottomLeft",
	AnchorBottom:      "bottom",
	AnchorBottomRight: "bottomRight",
}

func (a Anchor) String() string {
	if name, ok := anchorNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Anchor(%d)", int(a))
}

// ParseAnchor accepts the names produced by String, case-insensitively, plus
// dashed and underscored spellings such as "bottom-right".
func ParseAnchor(s string) (Anchor, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for a, name := range anchorNames {
		if strings.ToLower(name) == norm {
			return a, nil
		}
	}
	return AnchorTopLeft, fmt.Errorf("unknown anchor %q", s)
}

func (a Anchor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Anchor) UnmarshalText(b []byte) error {
	parsed, err := ParseAnchor(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// shiftWeights is how much of the size delta the origin moves by on each axis.
// Corners and center keep the named point fixed; edge anchors only move along the
// axis normal to the named edge.
func (a Anchor) shiftWeights() (wx, wy float64) {
	switch a {
	case AnchorTopRight:
		return 1, 0
	case AnchorRight:
		return 1, 0
	case AnchorBottomLeft:
		return 0, 1
	case AnchorBottom:
		return 0, 1
	case AnchorBottomRight:
		return 1, 1
	case AnchorCenter:
		return 0.5, 0.5
	default:
		// topLeft, top, left: origin already sits on the fixed edge(s).
		return 0, 0
	}
}

// Reposition returns the new origin of a frame resized from oldSize to newSize
// so that the anchor stays in place.
func (a Anchor) Reposition(origin Point, oldSize, newSize Size) Point {
	wx, wy := a.shiftWeights()
	d := newSize.Sub(oldSize)
	return Pt(origin.X-d.Width*wx, origin.Y-d.Height*wy)
}

// SignedDelta converts a pointer displacement into a size change for a resize
// pinned at a. The dragged handle is the one opposite the anchor, so the pointer
// moving away from the anchor grows the frame.
func (a Anchor) SignedDelta(delta Point) Size {
	switch a {
	case AnchorTopLeft:
		return Sz(delta.X, delta.Y)
	case AnchorTopRight:
		return Sz(-delta.X, delta.Y)
	case AnchorBottomLeft:
		return Sz(delta.X, -delta.Y)
	case AnchorBottomRight:
		return Sz(-delta.X, -delta.Y)
	case AnchorTop:
		return Sz(0, delta.Y)
	case AnchorBottom:
		return Sz(0, -delta.Y)
	case AnchorLeft:
		return Sz(delta.X, 0)
	case AnchorRight:
		return Sz(-delta.X, 0)
	case AnchorCenter:
		return Sz(2*delta.X, 2*delta.Y)
	}
	return Size{}
}

// Resize is the single implementation of the anchor position rule: it returns
// the frame after resizing frame to newSize pinned at a.
func (a Anchor) Resize(frame Rect, newSize Size) Rect {
	return Rect{Origin: a.Reposition(frame.Origin, frame.Size, newSize), Size: newSize}
}

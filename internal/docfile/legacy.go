package docfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
)

// Legacy boxes were sized in terminal cells; these match the old renderer's
// default box for lines without a size.
const (
	legacyDefaultWidth  = 10
	legacyDefaultHeight = 3
)

func legacyID(i int) string {
	return "box-" + strconv.Itoa(i)
}

// decodeLegacy reads the FLOWCHART line format: a header, a BOXES section, a
// CONNECTIONS section, then optional TEXTS, HIGHLIGHTS and PAN lines. Free
// texts and highlights have no counterpart and are skipped.
func decodeLegacy(r io.Reader) (Document, error) {
	scanner := bufio.NewScanner(r)
	doc := Document{Version: CurrentVersion, Viewport: geom.Identity()}

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "FLOWCHART" {
		return Document{}, fmt.Errorf("%w: missing FLOWCHART header", ErrInvalidDocument)
	}

	boxCount, err := section(scanner, "BOXES:")
	if err != nil {
		return Document{}, err
	}
	for i := 0; i < boxCount; i++ {
		if !scanner.Scan() {
			return Document{}, fmt.Errorf("%w: missing box data", ErrInvalidDocument)
		}
		n, err := legacyBox(i, scanner.Text())
		if err != nil {
			return Document{}, err
		}
		doc.Nodes = append(doc.Nodes, n)
	}

	connCount, err := section(scanner, "CONNECTIONS:")
	if err != nil {
		return Document{}, err
	}
	for i := 0; i < connCount; i++ {
		if !scanner.Scan() {
			return Document{}, fmt.Errorf("%w: missing connection data", ErrInvalidDocument)
		}
		// From,To leads every historical layout; the trailing anchor, arrow and
		// waypoint fields have no counterpart and are ignored.
		parts := strings.Split(strings.Split(scanner.Text(), "|")[0], ",")
		if len(parts) < 2 {
			return Document{}, fmt.Errorf("%w: bad connection line %d", ErrInvalidDocument, i)
		}
		from, err1 := strconv.Atoi(parts[0])
		to, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || from < 0 || from >= boxCount || to < 0 || to >= boxCount {
			continue
		}
		doc.Edges = append(doc.Edges, graph.EdgeRecord{
			EdgeID:     "conn-" + strconv.Itoa(i),
			Source:     legacyID(from),
			SourcePort: "out",
			Target:     legacyID(to),
			TargetPort: "in",
		})
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "PAN:") {
			continue
		}
		var x, y int
		if _, err := fmt.Sscanf(strings.TrimPrefix(line, "PAN:"), "%d,%d", &x, &y); err == nil {
			doc.Viewport = geom.Transform{OffsetX: float64(-x), OffsetY: float64(-y), Scale: 1}
		}
	}
	return doc, scanner.Err()
}

func section(scanner *bufio.Scanner, prefix string) (int, error) {
	if !scanner.Scan() {
		return 0, fmt.Errorf("%w: missing %s header", ErrInvalidDocument, strings.TrimSuffix(prefix, ":"))
	}
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(scanner.Text()), prefix))
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s count: %v", ErrInvalidDocument, strings.TrimSuffix(prefix, ":"), err)
	}
	return n, nil
}

// legacyBox accepts the three historical box layouts:
// X,Y,W,H,Color,Text / X,Y,W,H,Text / X,Y,Text.
func legacyBox(i int, line string) (Node, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 3 {
		return Node{}, fmt.Errorf("%w: bad box line %d", ErrInvalidDocument, i)
	}
	x, _ := strconv.Atoi(parts[0])
	y, _ := strconv.Atoi(parts[1])
	n := Node{ID: legacyID(i), X: float64(x), Y: float64(y), Width: legacyDefaultWidth, Height: legacyDefaultHeight}

	textFrom := 2
	if len(parts) >= 5 {
		w, _ := strconv.Atoi(parts[2])
		h, _ := strconv.Atoi(parts[3])
		n.Width, n.Height = float64(w), float64(h)
		textFrom = 4
		if len(parts) >= 6 {
			if _, err := strconv.Atoi(parts[4]); err == nil {
				textFrom = 5
			}
		}
	}
	n.Label = strings.ReplaceAll(strings.Join(parts[textFrom:], ","), "\\n", "\n")
	return n, nil
}

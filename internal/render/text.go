package render

import (
	"bufio"
	"os"
	"strings"

	"flowcanvas/pkg/editor"
)

// ExportText writes the view exactly as Lines draws it, without styling.
func ExportText(path string, s editor.Snapshot, width, height int) error {
	if width < 1 {
		width = 80
	}
	if height < 1 {
		height = 24
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, line := range Lines(s, width, height) {
		w.WriteString(strings.TrimRight(line, " "))
		w.WriteByte('\n')
	}
	return w.Flush()
}

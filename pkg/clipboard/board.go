// Package clipboard implements copy, cut, paste and duplicate for selected
// nodes. It produces engine commands; the command executor itself treats the
// clipboard family as no-ops.
package clipboard

import (
	"errors"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// Board stores one text payload.
type Board interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// ErrUnsupported is returned by SystemBoard when no clipboard utility is available.
var ErrUnsupported = errors.New("system clipboard unsupported")

// SystemBoard is the OS clipboard.
type SystemBoard struct{}

func (SystemBoard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	if runtime.GOOS == "darwin" {
		if out, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(out), nil
		}
	}
	return clipboard.ReadAll()
}

func (SystemBoard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// MemoryBoard keeps the payload in process, for tests and headless runs.
type MemoryBoard struct {
	text string
}

func (b *MemoryBoard) ReadAll() (string, error) {
	return b.text, nil
}

func (b *MemoryBoard) WriteAll(text string) error {
	b.text = text
	return nil
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/internal/docfile"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeDoc(t *testing.T, dir string) string {
	t.Helper()
	c := graph.NewCanvas()
	c.AddBox(graph.Box{BoxID: "a", X: 0, Y: 0, Width: 100, Height: 50, Lines: []string{"start"}})
	c.AddBox(graph.Box{BoxID: "b", X: 200, Y: 0, Width: 100, Height: 50})
	c.AddConnection(graph.Connection{ConnID: "e1", FromID: "a", FromPort: "out", ToID: "b", ToPort: "in"})
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, docfile.Save(path, c, geom.Identity()))
	return path
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir)
	scriptPath := filepath.Join(dir, "move.yaml")
	require.NoError(t, os.WriteFile(scriptPath, []byte("steps:\n  - op: move_nodes\n    args: {ids: [a], delta: {x: 5, y: 5}}\n"), 0o644))
	out := filepath.Join(dir, "out.json")

	stdout, err := execute(t, "run", doc, scriptPath, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "move_nodes")
	assert.Contains(t, stdout, "ok")

	c, _, err := docfile.Load(out)
	require.NoError(t, err)
	a, ok := c.Box("a")
	require.True(t, ok)
	assert.Equal(t, geom.Pt(5, 5), a.Position())
}

func TestRunCommandReportsFailure(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir)
	scriptPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(scriptPath, []byte("steps:\n  - op: move_nodes\n    args: {ids: [ghost], delta: {x: 1, y: 1}}\n"), 0o644))

	stdout, err := execute(t, "run", doc, scriptPath, "-o", "")
	assert.Error(t, err)
	assert.Contains(t, stdout, "failed")
}

func TestConvertAndInspect(t *testing.T) {
	dir := t.TempDir()
	legacy := filepath.Join(dir, "old.flow")
	require.NoError(t, os.WriteFile(legacy, []byte("FLOWCHART\nBOXES:1\n1,2,12,4,hello\nCONNECTIONS:0\n"), 0o644))
	converted := filepath.Join(dir, "new.json")

	_, err := execute(t, "convert", legacy, converted)
	require.NoError(t, err)

	stdout, err := execute(t, "inspect", converted, "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "box-0")
	assert.Contains(t, stdout, `"hello"`)

	stdout, err = execute(t, "inspect", converted, "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"id": "box-0"`)

	_, err = execute(t, "inspect", converted, "-f", "xml")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir)

	for _, name := range []string{"out.png", "out.txt"} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(dir, name)
			_, err := execute(t, "export", doc, out, "--fit")
			require.NoError(t, err)
			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}

	_, err := execute(t, "export", doc, filepath.Join(dir, "out.gif"))
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowcanvas", "config.toml")
	rootCmd.SetArgs([]string{"--config", path, "config", "init"})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	require.NoError(t, rootCmd.Execute())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[viewport]")
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "flowcanvas version "+version+"\n", stdout)
}

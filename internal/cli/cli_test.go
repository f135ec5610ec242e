package cli

// Test Plan for CLI commands:
// - structure renders a tree with categories, names and line ranges
// - structure --json emits the engine result
// - structure at level 0 prints metadata and at level 3 numbered lines
// - extract prints every match and fails when nothing matches
// - levels lists declared levels with their handlers
// - types lists every descriptor
// - scan prints a summary and lists failed files
// - watchLine summarises change events
// - formatNumber inserts thousand separators

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/project-outline/internal/config"
	"github.com/mvp-joe/project-outline/internal/engine"
	"github.com/mvp-joe/project-outline/internal/structure"
)

const pySource = `import os

class Greeter:
    def hello(self):
        return "hi"

def main():
    Greeter().hello()
`

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.New(config.Default())
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExecuteStructure_Tree(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "greeter.py", pySource)
	var out bytes.Buffer

	err := executeStructure(context.Background(), &out, newTestEngine(t), path, engine.DefaultOptions(), false)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Python · level 1 structure")
	assert.Contains(t, text, "class Greeter  L3-5")
	assert.Contains(t, text, "└─ method hello  L4-5")
	assert.Contains(t, text, "function main  L7-8")
	assert.Contains(t, text, "next levels: 2, 3")
}

func TestExecuteStructure_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "config.yaml", "a: 1\nb:\n  c: 2\n")
	var out bytes.Buffer

	err := executeStructure(context.Background(), &out, newTestEngine(t), path, engine.DefaultOptions(), true)
	require.NoError(t, err)

	var result engine.FileResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "YAML", result.Descriptor)
	assert.Equal(t, 3, structure.Count(result.Elements))
}

func TestExecuteStructure_MetadataAndContent(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "greeter.py", pySource)
	eng := newTestEngine(t)

	var meta bytes.Buffer
	require.NoError(t, executeStructure(context.Background(), &meta, eng, path, engine.Options{Level: 0}, false))
	assert.Contains(t, meta.String(), "lines: 8")

	var content bytes.Buffer
	require.NoError(t, executeStructure(context.Background(), &content, eng, path, engine.Options{Level: 3, Offset: 3, Limit: 2}, false))
	assert.Contains(t, content.String(), "3  class Greeter:")
	assert.Contains(t, content.String(), "4      def hello(self):")
	assert.Contains(t, content.String(), "continue with --offset 5")
}

func TestExecuteStructure_UnknownLevel(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), ".env", "A=1\n")
	err := executeStructure(context.Background(), &bytes.Buffer{}, newTestEngine(t), path, engine.Options{Level: 2}, false)
	assert.ErrorContains(t, err, "available: 0, 1, 3")
}

func TestExecuteExtract(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "greeter.py", pySource)
	eng := newTestEngine(t)

	var out bytes.Buffer
	require.NoError(t, executeExtract(context.Background(), &out, eng, path, "Greeter.hello", false))
	assert.Contains(t, out.String(), "lines 4-5")
	assert.Contains(t, out.String(), "    def hello(self):\n        return \"hi\"")

	var js bytes.Buffer
	require.NoError(t, executeExtract(context.Background(), &js, eng, path, "main", true))
	var matches []structure.Extraction
	require.NoError(t, json.Unmarshal(js.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "7-8", matches[0].Lines)

	err := executeExtract(context.Background(), &bytes.Buffer{}, eng, path, "missing", false)
	assert.ErrorContains(t, err, `no element named "missing"`)
}

func TestExecuteLevels(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	var out bytes.Buffer

	require.NoError(t, executeLevels(&out, eng.Registry(), "settings.ini"))
	text := out.String()
	assert.Contains(t, text, "INI")
	assert.Contains(t, text, "0  metadata")
	assert.Contains(t, text, "handler: built-in")
	assert.Contains(t, text, "handler: structure")
	assert.NotContains(t, text, "2  preview")

	assert.Error(t, executeLevels(&bytes.Buffer{}, eng.Registry(), "x.unknownext"))
}

func TestExecuteTypes(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	var out bytes.Buffer

	executeTypes(&out, eng.Registry())
	text := out.String()
	assert.Contains(t, text, "Python")
	assert.Contains(t, text, ".py")
	assert.Contains(t, text, "Environment")
	assert.Contains(t, text, "18 file types")
}

func TestExecuteScan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "greeter.py", pySource)
	writeFile(t, root, "conf/app.yaml", "a: 1\n")
	writeFile(t, root, "conf/bad.json", "{\"a\": }")

	var out bytes.Buffer
	summary, err := executeScan(context.Background(), &out, newTestEngine(t), root, engine.DefaultOptions(), false, true)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Degraded)
	assert.Contains(t, out.String(), "Scanned 3 files")
	assert.Contains(t, out.String(), "bad.json")
}

func TestWatchLine(t *testing.T) {
	t.Parallel()

	assert.Contains(t, watchLine(&engine.FileResult{Path: "a.go", Removed: true}), "- a.go")
	assert.Contains(t, watchLine(&engine.FileResult{Path: "a.go", Err: errors.New("x"), Error: "x"}), "! a.go: x")
	assert.Contains(t, watchLine(&engine.FileResult{
		Path:     "a.go",
		Elements: []*structure.Element{{Name: "f"}},
	}), "a.go  1 elements")
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}

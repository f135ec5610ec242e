package structure

import (
	"strings"
	"testing"

	"github.com/mvp-joe/project-outline/internal/analyzer"
	"github.com/stretchr/testify/assert"
)

// Test Plan for spans:
// - ExtractSpan returns the exact lines, untrimmed, including blank lines
//   and carriage returns
// - Every element of a built tree round-trips to the same lines
// - Ranges beyond the source are clamped
// - Extraction renders lines as "start-end"

const spanSource = "def a():\r\n    return 1\r\n\n  \nclass B:\n    def c(self):\n        pass\n"

func TestExtractSpan_Verbatim(t *testing.T) {
	t.Parallel()

	lines := SplitLines([]byte(spanSource))
	span := ExtractSpan(&Element{StartLine: 1, EndLine: 4}, lines)

	assert.Equal(t, "def a():\r\n    return 1\r\n\n  ", span.Text)
	assert.Equal(t, 1, span.StartLine)
	assert.Equal(t, 4, span.EndLine)
}

func TestExtractSpan_RoundTrip(t *testing.T) {
	t.Parallel()

	lines := SplitLines([]byte(spanSource))
	roots := Build(mapping(
		el(analyzer.Function, "a", 1, 2),
		el(analyzer.Class, "B", 5, 7),
		el(analyzer.Method, "c", 6, 7),
	), len(lines))

	Walk(roots, func(e *Element) bool {
		span := ExtractSpan(e, lines)
		want := strings.Join(lines[e.StartLine-1:e.EndLine], "\n")
		assert.Equal(t, want, span.Text, e.Path)
		return true
	})
}

func TestSliceLines_Clamps(t *testing.T) {
	t.Parallel()

	lines := []string{"a", "b", "c"}

	assert.Equal(t, Span{StartLine: 2, EndLine: 3, Text: "b\nc"}, SliceLines(lines, 2, 99))
	assert.Equal(t, Span{StartLine: 1, EndLine: 1, Text: "a"}, SliceLines(lines, 0, 1))
	assert.Equal(t, Span{StartLine: 5, EndLine: 5}, SliceLines(lines, 5, 6))
}

func TestSpan_Extraction(t *testing.T) {
	t.Parallel()

	ex := Span{StartLine: 12, EndLine: 14, Text: "x"}.Extraction("validate")
	assert.Equal(t, Extraction{Lines: "12-14", Content: "x", Name: "validate"}, ex)
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{}, SplitLines(nil))
	assert.Equal(t, []string{"a", ""}, SplitLines([]byte("a\n\n")))
	assert.Equal(t, []string{"a\r", "b"}, SplitLines([]byte("a\r\nb")))
}

package structure

import (
	"fmt"
	"strings"
)

// Span is a verbatim slice of source lines.
type Span struct {
	StartLine int
	EndLine   int
	Text      string
}

// Extraction is the by-name result shape consumed by editors and grep-style
// output. Lines is "start-end", 1-indexed and inclusive.
type Extraction struct {
	Lines   string `json:"lines"`
	Content string `json:"content"`
	Name    string `json:"name"`
}

// SplitLines splits source into lines the way line numbers count them: a
// trailing newline does not start a new line.
func SplitLines(source []byte) []string {
	if len(source) == 0 {
		return []string{}
	}
	text := strings.TrimSuffix(string(source), "\n")
	return strings.Split(text, "\n")
}

// ExtractSpan returns the lines of e exactly as they appear in lines. The
// range is clamped to the available lines.
func ExtractSpan(e *Element, lines []string) Span {
	return SliceLines(lines, e.StartLine, e.EndLine)
}

// SliceLines returns lines[start-1:end] joined by newlines, clamped to the
// available lines.
func SliceLines(lines []string, start, end int) Span {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if end < start {
		return Span{StartLine: start, EndLine: start}
	}
	return Span{
		StartLine: start,
		EndLine:   end,
		Text:      strings.Join(lines[start-1:end], "\n"),
	}
}

// Extraction converts a span into the compatibility shape.
func (s Span) Extraction(name string) Extraction {
	return Extraction{
		Lines:   fmt.Sprintf("%d-%d", s.StartLine, s.EndLine),
		Content: s.Text,
		Name:    name,
	}
}

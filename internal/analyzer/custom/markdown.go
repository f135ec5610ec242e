package custom

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// Markdown reports headings as sections. A section runs until the next
// heading of the same or a shallower level.
type Markdown struct{}

type heading struct {
	title string
	level int
	line  int
}

// Extract implements analyzer.Analyzer. Markdown never fails to parse.
func (m Markdown) Extract(source []byte) (analyzer.RawMapping, error) {
	raw := analyzer.RawMapping{}
	headings := m.headings(source)
	total := len(splitLines(source))

	for i, h := range headings {
		end := total
		for _, next := range headings[i+1:] {
			if next.level <= h.level {
				end = next.line - 1
				break
			}
		}
		raw.Add(analyzer.RawElement{
			Name:     h.title,
			Line:     h.line,
			EndLine:  max(end, h.line),
			Category: analyzer.Section,
		})
	}
	return raw, nil
}

func (m Markdown) headings(source []byte) []heading {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	offsets := newLineOffsets(source)

	var headings []heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		segs := h.Lines()
		if segs.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		first := segs.At(0)
		var parts []string
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			parts = append(parts, strings.TrimSpace(string(seg.Value(source))))
		}
		title := strings.TrimSpace(strings.TrimRight(strings.Join(parts, " "), "#"))
		if title == "" {
			return ast.WalkSkipChildren, nil
		}

		headings = append(headings, heading{
			title: title,
			level: h.Level,
			line:  offsets.lineAt(first.Start),
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

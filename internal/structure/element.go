// Package structure turns raw analyzer output into a typed containment tree
// and answers by-name queries against it.
package structure

import "github.com/mvp-joe/project-outline/internal/analyzer"

// Element is one node of the normalized structure tree. Identity is the pair
// (Path, StartLine). Elements are never modified once Build returns.
type Element struct {
	Category   analyzer.Category `json:"category"`
	Name       string            `json:"name"`
	Path       string            `json:"path"`
	StartLine  int               `json:"start_line"`
	EndLine    int               `json:"end_line"`
	Decorators []string          `json:"decorators,omitempty"`
	Children   []*Element        `json:"children,omitempty"`

	parent *Element
	scope  string
}

// Parent returns the enclosing element, or nil for a root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Depth returns the number of ancestors of e.
func (e *Element) Depth() int {
	d := 0
	for p := e.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Contains reports whether line falls inside e's range.
func (e *Element) Contains(line int) bool {
	return line >= e.StartLine && line <= e.EndLine
}

// Walk visits elements depth-first in source order. Returning false from fn
// skips the element's children.
func Walk(elements []*Element, fn func(e *Element) bool) {
	for _, e := range elements {
		if fn(e) {
			Walk(e.Children, fn)
		}
	}
}

// Count returns the number of elements in the tree.
func Count(elements []*Element) int {
	n := 0
	Walk(elements, func(*Element) bool {
		n++
		return true
	})
	return n
}

// Flatten returns every element in depth-first source order.
func Flatten(elements []*Element) []*Element {
	var out []*Element
	Walk(elements, func(e *Element) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Innermost returns the deepest element whose range contains line.
func Innermost(elements []*Element, line int) *Element {
	for _, e := range elements {
		if e.Contains(line) {
			if inner := Innermost(e.Children, line); inner != nil {
				return inner
			}
			return e
		}
	}
	return nil
}

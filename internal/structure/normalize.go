package structure

import (
	"sort"
	"strconv"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// node is an element under construction.
type node struct {
	el       *Element
	explicit bool // analyzer supplied the end line
	end      int  // computed end during containment
	order    int
}

// Build normalizes a raw mapping into a containment tree. totalLines is the
// line count of the source and bounds inferred end lines; pass 0 when it is
// unknown.
//
// Elements are ordered by start line with wider (or unbounded) spans first,
// then nested with a stack of open elements. An element without an end line
// stays open as long as something it contains is still being read; once the
// pass completes its end is inferred from its next sibling, its parent, or the
// end of the file. Elements with identical ranges become siblings.
func Build(raw analyzer.RawMapping, totalLines int) []*Element {
	nodes := flatten(raw)
	if len(nodes) == 0 {
		return []*Element{}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.el.StartLine != b.el.StartLine {
			return a.el.StartLine < b.el.StartLine
		}
		if a.explicit != b.explicit {
			return !a.explicit
		}
		if a.explicit && a.el.EndLine != b.el.EndLine {
			return a.el.EndLine > b.el.EndLine
		}
		return a.order < b.order
	})

	roots := nest(nodes)

	eof := totalLines
	for _, n := range nodes {
		if n.end > eof {
			eof = n.end
		}
	}
	backfill(roots, nodes, eof)

	assignPaths(roots)
	return roots
}

// flatten tags every raw element with its category and repairs points that
// violate the RawElement invariants. Elements without a name are dropped.
func flatten(raw analyzer.RawMapping) []*node {
	var nodes []*node
	for _, cat := range raw.OrderedCategories() {
		for _, r := range raw[cat] {
			if r.Name == "" {
				continue
			}
			start := r.Line
			if start < 1 {
				start = 1
			}
			el := &Element{
				Category:  cat,
				Name:      r.Name,
				StartLine: start,
				Children:  []*Element{},
				scope:     r.Scope,
			}
			if len(r.Decorators) > 0 {
				el.Decorators = append([]string(nil), r.Decorators...)
			}

			n := &node{el: el, order: len(nodes), end: start}
			if r.HasEnd() {
				n.explicit = true
				n.end = max(r.EndLine, start)
				el.EndLine = n.end
			}
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func identical(a, b *node) bool {
	if a.el.StartLine != b.el.StartLine || a.explicit != b.explicit {
		return false
	}
	if !a.explicit {
		return len(a.el.Children) == 0
	}
	return a.el.EndLine == b.el.EndLine
}

func nest(nodes []*node) []*Element {
	roots := []*Element{}
	var stack []*node

	for _, cur := range nodes {
		for len(stack) > 0 && stack[len(stack)-1].end < cur.el.StartLine {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 && identical(stack[len(stack)-1], cur) {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, cur.el)
			stack = append(stack, cur)
			continue
		}

		// Keep the child inside the nearest ancestor with a known end.
		if cur.explicit {
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].explicit {
					if cur.end > stack[i].end {
						cur.end = stack[i].end
						cur.el.EndLine = cur.end
					}
					break
				}
			}
		}

		// Open ancestors grow to cover what they contain.
		for i := len(stack) - 1; i >= 0 && !stack[i].explicit; i-- {
			if cur.end > stack[i].end {
				stack[i].end = cur.end
			}
		}

		parent := stack[len(stack)-1].el
		cur.el.parent = parent
		parent.Children = append(parent.Children, cur.el)
		stack = append(stack, cur)
	}

	return roots
}

// backfill resolves end lines the analyzer did not supply, top-down so a
// parent's end is final before its children read it.
func backfill(roots []*Element, nodes []*node, eof int) {
	computed := make(map[*Element]*node, len(nodes))
	for _, n := range nodes {
		computed[n.el] = n
	}

	var resolve func(siblings []*Element, parentEnd int)
	resolve = func(siblings []*Element, parentEnd int) {
		for i, el := range siblings {
			n := computed[el]
			if !n.explicit {
				end := parentEnd
				if i+1 < len(siblings) {
					end = siblings[i+1].StartLine - 1
				}
				end = max(end, n.end, el.StartLine)
				if parentEnd > 0 {
					end = min(end, parentEnd)
				}
				el.EndLine = max(end, el.StartLine)
			}
			resolve(el.Children, el.EndLine)
		}
	}
	resolve(roots, eof)
}

// assignPaths gives every element a dotted path unique within the result.
// A colliding path gets an ordinal suffix in source order: name, name#2, ...
func assignPaths(roots []*Element) {
	taken := map[string]bool{}

	var assign func(elements []*Element, prefix string)
	assign = func(elements []*Element, prefix string) {
		for _, el := range elements {
			base := el.Name
			if el.scope != "" {
				base = el.scope + "." + base
			}
			if prefix != "" {
				base = prefix + "." + base
			}
			path := base
			for n := 2; taken[path]; n++ {
				path = base + "#" + strconv.Itoa(n)
			}
			taken[path] = true
			el.Path = path
			assign(el.Children, path)
		}
	}
	assign(roots, "")
}

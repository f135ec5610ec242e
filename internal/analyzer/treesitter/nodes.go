package treesitter

import (
	"slices"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// firstLine returns the first line of s, trimmed.
func firstLine(s string) string {
	s, _, _ = strings.Cut(s, "\n")
	return strings.TrimSpace(s)
}

// children lists the direct children of node, named or not.
func children(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	count := node.ChildCount()
	out := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if child := node.Child(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// walkTree visits node and its descendants depth-first. A false return from
// visit prunes that subtree.
func walkTree(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	for _, child := range children(node) {
		walkTree(child, visit)
	}
}

func findChildByType(node *sitter.Node, kind string) *sitter.Node {
	for _, child := range children(node) {
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

func findChildrenByType(node *sitter.Node, kind string) []*sitter.Node {
	var matched []*sitter.Node
	for _, child := range children(node) {
		if child.Kind() == kind {
			matched = append(matched, child)
		}
	}
	return matched
}

// findDescendantByType returns the first node of the given type in a
// depth-first walk below node.
func findDescendantByType(node *sitter.Node, nodeType string) *sitter.Node {
	var found *sitter.Node
	walkTree(node, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n != node && n.Kind() == nodeType {
			found = n
			return false
		}
		return true
	})
	return found
}

// enclosing returns the nearest ancestor whose kind is not in skip.
func enclosing(node *sitter.Node, skip ...string) *sitter.Node {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if !slices.Contains(skip, parent.Kind()) {
			return parent
		}
	}
	return nil
}

// hasChildKind reports whether node has a direct child of the given kind.
func hasChildKind(node *sitter.Node, kind string) bool {
	return findChildByType(node, kind) != nil
}

// precedingSiblings collects the contiguous run of siblings of the given kind
// directly before node, in source order.
func precedingSiblings(node *sitter.Node, kind string) []*sitter.Node {
	var run []*sitter.Node
	for prev := node.PrevSibling(); prev != nil && prev.Kind() == kind; prev = prev.PrevSibling() {
		run = append([]*sitter.Node{prev}, run...)
	}
	return run
}

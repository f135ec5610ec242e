package treesitter

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// Ruby describes Ruby source files. Modules are reported as classes.
var Ruby = Language{
	Name:    "ruby",
	Grammar: "ruby",
	Categories: map[analyzer.Category][]string{
		analyzer.Class:        {"class", "module"},
		analyzer.Method:       {"method"},
		analyzer.StaticMethod: {"singleton_method"},
	},
	Classify: classifyRuby,
	Extend:   extendRuby,
}

// classifyRuby reports a def outside any class or module as a function.
func classifyRuby(n *sitter.Node, cat analyzer.Category, source []byte) analyzer.Category {
	if cat != analyzer.Method {
		return cat
	}
	for parent := n.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Kind() {
		case "class", "module", "singleton_class":
			return cat
		}
	}
	return analyzer.Function
}

var rubyRequires = map[string]bool{
	"require":          true,
	"require_relative": true,
	"load":             true,
}

// extendRuby adds receiver-less require calls as imports.
func extendRuby(root *sitter.Node, source []byte) analyzer.RawMapping {
	raw := analyzer.RawMapping{}

	walkTree(root, func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}
		if n.ChildByFieldName("receiver") != nil {
			return true
		}
		method := n.ChildByFieldName("method")
		if method == nil || !rubyRequires[nodeText(method, source)] {
			return true
		}

		start, end := Span(n)
		raw.Add(analyzer.RawElement{
			Name:     collapseSpace(firstLine(nodeText(n, source))),
			Line:     start,
			EndLine:  end,
			Category: analyzer.Import,
		})
		return false
	})

	return raw
}

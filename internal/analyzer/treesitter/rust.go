package treesitter

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// Rust describes Rust source files. impl blocks are reported as classes named
// "impl Type" or "impl Trait for Type".
var Rust = Language{
	Name:    "rust",
	Grammar: "rust",
	Categories: map[analyzer.Category][]string{
		analyzer.Import:   {"use_declaration"},
		analyzer.Class:    {"impl_item"},
		analyzer.Struct:   {"struct_item", "union_item"},
		analyzer.Trait:    {"trait_item"},
		analyzer.Enum:     {"enum_item"},
		analyzer.Function: {"function_item", "function_signature_item"},
	},
	NameFunc:   rustName,
	Classify:   classifyRust,
	Decorators: rustAttributes,
}

func rustName(n *sitter.Node, cat analyzer.Category, source []byte) string {
	if n.Kind() != "impl_item" {
		return ""
	}

	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		return ""
	}
	name := "impl " + nodeText(typeNode, source)
	if traitNode := n.ChildByFieldName("trait"); traitNode != nil {
		name = "impl " + nodeText(traitNode, source) + " for " + nodeText(typeNode, source)
	}
	return name
}

// classifyRust marks functions inside impl or trait blocks as methods, and
// associated functions without a self parameter as static methods.
func classifyRust(n *sitter.Node, cat analyzer.Category, source []byte) analyzer.Category {
	if cat != analyzer.Function {
		return cat
	}

	owner := enclosing(n, "declaration_list")
	if owner == nil || (owner.Kind() != "impl_item" && owner.Kind() != "trait_item") {
		return cat
	}

	params := n.ChildByFieldName("parameters")
	if params != nil && hasChildKind(params, "self_parameter") {
		return analyzer.Method
	}
	return analyzer.StaticMethod
}

// rustAttributes collects the #[...] attributes written directly above an item.
func rustAttributes(n *sitter.Node, source []byte) ([]string, int) {
	attrs := precedingSiblings(n, "attribute_item")
	if len(attrs) == 0 {
		return nil, 0
	}

	decorators := make([]string, 0, len(attrs))
	for _, a := range attrs {
		decorators = append(decorators, collapseSpace(nodeText(a, source)))
	}
	first, _ := Span(attrs[0])
	return decorators, first
}

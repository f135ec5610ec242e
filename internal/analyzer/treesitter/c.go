package treesitter

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// C describes C source and header files.
var C = Language{
	Name:    "c",
	Grammar: "c",
	Categories: map[analyzer.Category][]string{
		analyzer.Import:   {"preproc_include"},
		analyzer.Struct:   {"struct_specifier", "union_specifier"},
		analyzer.Enum:     {"enum_specifier"},
		analyzer.Function: {"function_definition"},
	},
	Accept:   acceptC,
	NameFunc: cName,
}

// acceptC keeps only named type specifiers that carry a body; bare references
// such as "struct point p;" are not definitions.
func acceptC(n *sitter.Node, cat analyzer.Category) bool {
	switch cat {
	case analyzer.Struct, analyzer.Enum:
		return n.ChildByFieldName("name") != nil && n.ChildByFieldName("body") != nil
	}
	return true
}

func cName(n *sitter.Node, cat analyzer.Category, source []byte) string {
	if n.Kind() != "function_definition" {
		return ""
	}
	return findFunctionName(n.ChildByFieldName("declarator"), source)
}

// findFunctionName follows a declarator chain down to the function identifier.
func findFunctionName(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}

	switch node.Kind() {
	case "identifier", "field_identifier":
		return nodeText(node, source)
	case "function_declarator", "pointer_declarator", "parenthesized_declarator":
		return findFunctionName(node.ChildByFieldName("declarator"), source)
	default:
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(uint(i))
			if child.Kind() == "identifier" {
				return nodeText(child, source)
			}
		}
	}

	return ""
}

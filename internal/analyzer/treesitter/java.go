package treesitter

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// Java describes Java source files.
var Java = Language{
	Name:    "java",
	Grammar: "java",
	Categories: map[analyzer.Category][]string{
		analyzer.Import:    {"import_declaration"},
		analyzer.Class:     {"class_declaration", "record_declaration"},
		analyzer.Interface: {"interface_declaration", "annotation_type_declaration"},
		analyzer.Enum:      {"enum_declaration"},
		analyzer.Method:    {"method_declaration", "constructor_declaration"},
		analyzer.Property:  {"field_declaration"},
	},
	NameFunc:   javaName,
	Classify:   classifyJava,
	Decorators: javaAnnotations,
}

// javaName names a field declaration after its declarators ("a, b" for "int a, b;").
func javaName(n *sitter.Node, cat analyzer.Category, source []byte) string {
	if n.Kind() != "field_declaration" {
		return ""
	}

	var names []string
	for _, declarator := range findChildrenByType(n, "variable_declarator") {
		if nameNode := declarator.ChildByFieldName("name"); nameNode != nil {
			names = append(names, nodeText(nameNode, source))
		}
	}
	return strings.Join(names, ", ")
}

func classifyJava(n *sitter.Node, cat analyzer.Category, source []byte) analyzer.Category {
	if cat != analyzer.Method || n.Kind() != "method_declaration" {
		return cat
	}
	if modifiers := findChildByType(n, "modifiers"); modifiers != nil && hasChildKind(modifiers, "static") {
		return analyzer.StaticMethod
	}
	return cat
}

// javaAnnotations reads annotations from the modifiers node. Annotations are
// part of the declaration's own span, so the start line does not move.
func javaAnnotations(n *sitter.Node, source []byte) ([]string, int) {
	modifiers := findChildByType(n, "modifiers")
	if modifiers == nil {
		return nil, 0
	}

	var decorators []string
	for i := 0; i < int(modifiers.NamedChildCount()); i++ {
		child := modifiers.NamedChild(uint(i))
		if child.Kind() == "marker_annotation" || child.Kind() == "annotation" {
			decorators = append(decorators, collapseSpace(nodeText(child, source)))
		}
	}
	return decorators, 0
}

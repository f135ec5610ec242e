package treesitter

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// PHP describes PHP source files.
var PHP = Language{
	Name:    "php",
	Grammar: "php",
	Categories: map[analyzer.Category][]string{
		analyzer.Import:    {"namespace_use_declaration"},
		analyzer.Class:     {"class_declaration"},
		analyzer.Interface: {"interface_declaration"},
		analyzer.Trait:     {"trait_declaration"},
		analyzer.Enum:      {"enum_declaration"},
		analyzer.Function:  {"function_definition"},
		analyzer.Method:    {"method_declaration"},
		analyzer.Property:  {"property_declaration"},
	},
	NameFunc:   phpName,
	Classify:   classifyPHP,
	Decorators: phpAttributes,
}

// phpName names a property declaration after its first $variable.
func phpName(n *sitter.Node, cat analyzer.Category, source []byte) string {
	if n.Kind() != "property_declaration" {
		return ""
	}
	return nodeText(findDescendantByType(n, "variable_name"), source)
}

func classifyPHP(n *sitter.Node, cat analyzer.Category, source []byte) analyzer.Category {
	if cat == analyzer.Method && hasChildKind(n, "static_modifier") {
		return analyzer.StaticMethod
	}
	return cat
}

// phpAttributes reads PHP 8 #[...] attribute groups.
func phpAttributes(n *sitter.Node, source []byte) ([]string, int) {
	var decorators []string
	for _, group := range findChildrenByType(n, "attribute_list") {
		decorators = append(decorators, collapseSpace(nodeText(group, source)))
	}
	return decorators, 0
}

package treesitter

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

var typeScriptCategories = map[analyzer.Category][]string{
	analyzer.Import:    {"import_statement"},
	analyzer.Class:     {"class_declaration", "abstract_class_declaration"},
	analyzer.Interface: {"interface_declaration"},
	analyzer.Enum:      {"enum_declaration"},
	analyzer.Function:  {"function_declaration", "generator_function_declaration"},
	analyzer.Method:    {"method_definition", "method_signature", "abstract_method_signature"},
	analyzer.Property:  {"public_field_definition"},
}

// TypeScript describes .ts files.
var TypeScript = Language{
	Name:       "typescript",
	Grammar:    "typescript",
	Categories: typeScriptCategories,
	Classify:   classifyTypeScript,
	Decorators: typeScriptDecorators,
	Extend:     extendTypeScript,
}

// TSX describes .tsx and .jsx files.
var TSX = Language{
	Name:       "tsx",
	Grammar:    "tsx",
	Categories: typeScriptCategories,
	Classify:   classifyTypeScript,
	Decorators: typeScriptDecorators,
	Extend:     extendTypeScript,
}

// JavaScript describes .js files. JavaScript parses with the TypeScript
// grammar, which is a superset for structural purposes.
var JavaScript = Language{
	Name:       "javascript",
	Grammar:    "typescript",
	Categories: typeScriptCategories,
	Classify:   classifyTypeScript,
	Decorators: typeScriptDecorators,
	Extend:     extendTypeScript,
}

// classifyTypeScript separates static methods and accessors from plain methods.
func classifyTypeScript(n *sitter.Node, cat analyzer.Category, source []byte) analyzer.Category {
	if cat != analyzer.Method {
		return cat
	}
	switch {
	case hasChildKind(n, "static"):
		return analyzer.StaticMethod
	case hasChildKind(n, "get"), hasChildKind(n, "set"):
		return analyzer.Property
	}
	return cat
}

// typeScriptDecorators collects decorators attached to a class (as children)
// or to a class member (as preceding siblings in the class body).
func typeScriptDecorators(n *sitter.Node, source []byte) ([]string, int) {
	nodes := findChildrenByType(n, "decorator")
	if len(nodes) == 0 {
		nodes = precedingSiblings(n, "decorator")
	}
	if len(nodes) == 0 {
		return nil, 0
	}

	decorators := make([]string, 0, len(nodes))
	for _, d := range nodes {
		decorators = append(decorators, collapseSpace(nodeText(d, source)))
	}
	first, _ := Span(nodes[0])
	return decorators, first
}

// extendTypeScript adds module-level arrow functions and function expressions
// bound with const/let/var as functions.
func extendTypeScript(root *sitter.Node, source []byte) analyzer.RawMapping {
	raw := analyzer.RawMapping{}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(uint(i))
		if stmt.Kind() == "export_statement" {
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				stmt = decl
			}
		}
		if stmt.Kind() != "lexical_declaration" && stmt.Kind() != "variable_declaration" {
			continue
		}

		for _, declarator := range findChildrenByType(stmt, "variable_declarator") {
			value := declarator.ChildByFieldName("value")
			if value == nil {
				continue
			}
			switch value.Kind() {
			case "arrow_function", "function_expression", "function", "generator_function":
			default:
				continue
			}

			name := nodeText(declarator.ChildByFieldName("name"), source)
			if name == "" {
				continue
			}
			start, end := Span(stmt)
			raw.Add(analyzer.RawElement{
				Name:     name,
				Line:     start,
				EndLine:  end,
				Category: analyzer.Function,
			})
		}
	}

	return raw
}

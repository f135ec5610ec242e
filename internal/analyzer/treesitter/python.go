package treesitter

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// Python describes Python source files.
var Python = Language{
	Name:    "python",
	Grammar: "python",
	Categories: map[analyzer.Category][]string{
		analyzer.Import:   {"import_statement", "import_from_statement"},
		analyzer.Class:    {"class_definition"},
		analyzer.Function: {"function_definition"},
	},
	Classify:   classifyPython,
	Decorators: pythonDecorators,
}

// classifyPython turns functions defined directly in a class body into
// methods, then refines them by decorator.
func classifyPython(n *sitter.Node, cat analyzer.Category, source []byte) analyzer.Category {
	if cat != analyzer.Function {
		return cat
	}

	owner := enclosing(n, "decorated_definition", "block")
	if owner == nil || owner.Kind() != "class_definition" {
		return cat
	}

	decorators, _ := pythonDecorators(n, source)
	for _, d := range decorators {
		switch decoratorName(d) {
		case "staticmethod":
			return analyzer.StaticMethod
		case "classmethod":
			return analyzer.ClassMethod
		case "property", "cached_property", "functools.cached_property":
			return analyzer.Property
		}
		if strings.HasSuffix(decoratorName(d), ".setter") || strings.HasSuffix(decoratorName(d), ".deleter") {
			return analyzer.Property
		}
	}
	return analyzer.Method
}

// pythonDecorators reads decorators from an enclosing decorated_definition.
// The element then starts at its first decorator.
func pythonDecorators(n *sitter.Node, source []byte) ([]string, int) {
	parent := n.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil, 0
	}

	nodes := findChildrenByType(parent, "decorator")
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

// decoratorName strips the leading @ and any call arguments: "@app.route('/')"
// becomes "app.route".
func decoratorName(decorator string) string {
	name := strings.TrimPrefix(strings.TrimSpace(decorator), "@")
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

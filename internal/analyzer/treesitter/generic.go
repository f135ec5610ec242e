package treesitter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// Language configures the generic analyzer for one language. Everything that
// differs between languages lives in this value.
type Language struct {
	// Name identifies the language (e.g. "python").
	Name string

	// Grammar is the grammar catalog key used for parsing.
	Grammar string

	// Categories maps each semantic category to the node kinds that satisfy it.
	// A category with no entry is simply absent from results.
	Categories map[analyzer.Category][]string

	// NameFields lists the child field names tried for an element's name.
	// Defaults to "name".
	NameFields []string

	// Accept filters matched nodes. Nil accepts every match.
	Accept func(node *sitter.Node, cat analyzer.Category) bool

	// NameFunc overrides naming. Returning "" falls through to the generic rules.
	NameFunc func(node *sitter.Node, cat analyzer.Category, source []byte) string

	// Classify refines the category of a matched node.
	Classify func(node *sitter.Node, cat analyzer.Category, source []byte) analyzer.Category

	// Decorators returns decorator texts for a node and the line of the first
	// one (0 when the decorators do not move the element's start).
	Decorators func(node *sitter.Node, source []byte) ([]string, int)

	// Extend adds language-specific elements by walking the tree independently.
	Extend func(root *sitter.Node, source []byte) analyzer.RawMapping
}

// Generic extracts raw elements from any grammar using a Language value.
type Generic struct {
	lang  Language
	kinds map[string]analyzer.Category
}

// NewGeneric validates lang and builds an analyzer for it. A node kind mapped
// to two categories is a configuration bug and is rejected.
func NewGeneric(lang Language) (*Generic, error) {
	if lang.Name == "" {
		return nil, fmt.Errorf("language name is required")
	}
	if lang.Grammar == "" {
		return nil, fmt.Errorf("language %s: grammar is required", lang.Name)
	}
	if _, ok := grammarSources[lang.Grammar]; !ok {
		return nil, fmt.Errorf("language %s: %w: %s", lang.Name, analyzer.ErrGrammarUnavailable, lang.Grammar)
	}

	kinds := make(map[string]analyzer.Category)
	for cat, nodeKinds := range lang.Categories {
		if len(nodeKinds) == 0 {
			return nil, fmt.Errorf("language %s: category %s maps to no node kinds", lang.Name, cat)
		}
		for _, kind := range nodeKinds {
			if prev, dup := kinds[kind]; dup && prev != cat {
				return nil, fmt.Errorf("language %s: node kind %s mapped to both %s and %s", lang.Name, kind, prev, cat)
			}
			kinds[kind] = cat
		}
	}

	if len(lang.NameFields) == 0 {
		lang.NameFields = []string{"name"}
	}

	return &Generic{lang: lang, kinds: kinds}, nil
}

// MustGeneric is NewGeneric for package-level language tables.
func MustGeneric(lang Language) *Generic {
	g, err := NewGeneric(lang)
	if err != nil {
		panic(err)
	}
	return g
}

// Language returns the language name.
func (g *Generic) Language() string {
	return g.lang.Name
}

// Extract parses source and returns its raw category mapping. Syntax errors
// produce a best-effort mapping plus a *analyzer.ParseError.
func (g *Generic) Extract(source []byte) (analyzer.RawMapping, error) {
	grammar, err := LoadGrammar(g.lang.Grammar)
	if err != nil {
		return analyzer.RawMapping{}, err
	}

	tree, err := grammar.Parse(source)
	if tree == nil {
		return analyzer.RawMapping{}, err
	}
	defer tree.Close()

	return g.Collect(tree), err
}

// Collect walks a parsed tree once, depth-first, and gathers matches in
// source order, then merges the language extension's elements.
func (g *Generic) Collect(tree *ParseTree) analyzer.RawMapping {
	raw := analyzer.RawMapping{}
	source := tree.Source()
	root := tree.Root()

	walkTree(root, func(n *sitter.Node) bool {
		cat, ok := g.kinds[n.Kind()]
		if !ok {
			return true
		}
		if g.lang.Accept != nil && !g.lang.Accept(n, cat) {
			return true
		}

		name := g.nodeName(n, cat, source)
		if name == "" {
			return true
		}

		if g.lang.Classify != nil {
			cat = g.lang.Classify(n, cat, source)
		}

		start, end := Span(n)
		var decorators []string
		if g.lang.Decorators != nil {
			var first int
			decorators, first = g.lang.Decorators(n, source)
			if first > 0 && first < start {
				start = first
			}
		}

		raw.Add(analyzer.RawElement{
			Name:       name,
			Line:       start,
			EndLine:    end,
			Decorators: decorators,
			Category:   cat,
		})
		return true
	})

	if g.lang.Extend != nil {
		raw.Merge(g.lang.Extend(root, source))
	}

	return raw
}

// nodeName resolves a node's declared name: the language override, then the
// configured name fields, then the first identifier-like named child, then
// the node's own first line. Imports are named by their statement text.
func (g *Generic) nodeName(n *sitter.Node, cat analyzer.Category, source []byte) string {
	if g.lang.NameFunc != nil {
		if name := g.lang.NameFunc(n, cat, source); name != "" {
			return name
		}
	}

	if cat == analyzer.Import {
		return collapseSpace(firstLine(nodeText(n, source)))
	}

	for _, field := range g.lang.NameFields {
		if child := n.ChildByFieldName(field); child != nil {
			if name := strings.TrimSpace(nodeText(child, source)); name != "" {
				return name
			}
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(uint(i))
		if isIdentifierKind(child.Kind()) {
			return nodeText(child, source)
		}
	}

	return truncate(firstLine(nodeText(n, source)), 80)
}

func isIdentifierKind(kind string) bool {
	return strings.HasSuffix(kind, "identifier") || kind == "constant" || kind == "name"
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

package treesitter

import (
	"fmt"
	"sort"
	"sync"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// grammarSources lists the grammars compiled into the binary.
var grammarSources = map[string]func() unsafe.Pointer{
	"c":          c.Language,
	"java":       java.Language,
	"php":        php.LanguagePHP,
	"python":     python.Language,
	"ruby":       ruby.Language,
	"rust":       rust.Language,
	"tsx":        typescript.LanguageTSX,
	"typescript": typescript.LanguageTypescript,
}

// grammarEntry loads one grammar at most once and shares it read-only afterwards.
type grammarEntry struct {
	once    sync.Once
	grammar *Grammar
	err     error
}

var grammarCache = func() map[string]*grammarEntry {
	m := make(map[string]*grammarEntry, len(grammarSources))
	for name := range grammarSources {
		m[name] = &grammarEntry{}
	}
	return m
}()

// Grammar wraps a single tree-sitter language.
type Grammar struct {
	name     string
	language *sitter.Language
}

// Name returns the grammar's language name.
func (g *Grammar) Name() string {
	return g.name
}

// AvailableGrammars returns the names of all compiled-in grammars, sorted.
func AvailableGrammars() []string {
	names := make([]string, 0, len(grammarSources))
	for name := range grammarSources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadGrammar returns the grammar registered under name. Unknown names and
// grammars whose ABI the runtime rejects yield ErrGrammarUnavailable.
func LoadGrammar(name string) (*Grammar, error) {
	entry, ok := grammarCache[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", analyzer.ErrGrammarUnavailable, name)
	}

	entry.once.Do(func() {
		lang := sitter.NewLanguage(grammarSources[name]())

		check := sitter.NewParser()
		defer check.Close()
		if err := check.SetLanguage(lang); err != nil {
			entry.err = fmt.Errorf("%w: %s: %v", analyzer.ErrGrammarUnavailable, name, err)
			return
		}

		entry.grammar = &Grammar{name: name, language: lang}
	})

	return entry.grammar, entry.err
}

// ParseTree is the result of parsing one source buffer.
type ParseTree struct {
	tree   *sitter.Tree
	source []byte
}

// Root returns the root node of the tree.
func (t *ParseTree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Source returns the buffer the tree was parsed from.
func (t *ParseTree) Source() []byte {
	return t.source
}

// Close releases the native tree.
func (t *ParseTree) Close() {
	t.tree.Close()
}

// Parse parses source with a fresh parser. A tree containing syntax errors is
// still returned, together with a *analyzer.ParseError locating the first one.
func (g *Grammar) Parse(source []byte) (*ParseTree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(g.language); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", analyzer.ErrGrammarUnavailable, g.name, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &analyzer.ParseError{Format: g.name, Message: "parser produced no tree"}
	}

	pt := &ParseTree{tree: tree, source: source}
	root := tree.RootNode()
	if root.HasError() {
		return pt, &analyzer.ParseError{
			Format:  g.name,
			Line:    firstErrorLine(root),
			Message: "syntax error",
		}
	}

	return pt, nil
}

// Span converts a node's 0-indexed row range into 1-indexed inclusive lines.
// This is the only place grammar rows become line numbers.
//
// A node that ends at column 0 of a later row stops on the previous line.
func Span(node *sitter.Node) (start, end int) {
	sp := node.StartPosition()
	ep := node.EndPosition()

	start = int(sp.Row) + 1
	end = int(ep.Row) + 1
	if ep.Column == 0 && ep.Row > sp.Row {
		end--
	}
	return start, end
}

// firstErrorLine returns the 1-indexed line of the first ERROR or MISSING node.
func firstErrorLine(root *sitter.Node) int {
	line := 0
	walkTree(root, func(n *sitter.Node) bool {
		if line > 0 {
			return false
		}
		if n.IsError() || n.IsMissing() {
			line, _ = Span(n)
			return false
		}
		return n.HasError()
	})
	return line
}

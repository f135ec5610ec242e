package treesitter

import (
	"fmt"
	"sort"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// languages is the built-in language table, keyed by language name.
var languages = map[string]Language{
	C.Name:          C,
	Java.Name:       Java,
	JavaScript.Name: JavaScript,
	PHP.Name:        PHP,
	Python.Name:     Python,
	Ruby.Name:       Ruby,
	Rust.Name:       Rust,
	TSX.Name:        TSX,
	TypeScript.Name: TypeScript,
}

// Languages returns the names of the built-in languages, sorted.
func Languages() []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewAnalyzer returns the generic analyzer configured for a built-in language.
func NewAnalyzer(name string) (*Generic, error) {
	lang, ok := languages[name]
	if !ok {
		return nil, fmt.Errorf("%w: no language table for %s", analyzer.ErrGrammarUnavailable, name)
	}
	return NewGeneric(lang)
}

// Analyzers builds a generic analyzer for every built-in language.
func Analyzers() (map[string]analyzer.Analyzer, error) {
	out := make(map[string]analyzer.Analyzer, len(languages))
	for name, lang := range languages {
		g, err := NewGeneric(lang)
		if err != nil {
			return nil, err
		}
		out[name] = g
	}
	return out, nil
}

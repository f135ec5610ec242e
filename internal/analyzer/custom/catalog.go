package custom

import "github.com/mvp-joe/project-outline/internal/analyzer"

// Analyzers returns every hand-written analyzer keyed by the name that
// descriptors use to refer to it.
func Analyzers() map[string]analyzer.Analyzer {
	return map[string]analyzer.Analyzer{
		"go":       Go{},
		"yaml":     YAML{},
		"json":     JSON{},
		"jsonc":    JSONC{},
		"toml":     TOML{},
		"ini":      INI{},
		"dotenv":   Dotenv{},
		"markdown": Markdown{},
	}
}

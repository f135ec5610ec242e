package custom

import (
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// Dotenv reports each variable of a .env file as a key.
type Dotenv struct{}

// Extract implements analyzer.Analyzer.
func (d Dotenv) Extract(source []byte) (analyzer.RawMapping, error) {
	keys, err := d.keys(source)
	if err != nil {
		return nil, err
	}
	return keys.mapping(), nil
}

// ExtractNamed implements analyzer.NamedExtractor.
func (d Dotenv) ExtractNamed(source []byte, name string) (analyzer.RawElement, bool) {
	keys, err := d.keys(source)
	if err != nil {
		return analyzer.RawElement{}, false
	}
	return keys.named(name)
}

func (d Dotenv) keys(source []byte) (keyedSet, error) {
	env, err := godotenv.UnmarshalBytes(source)
	if err != nil {
		return nil, &analyzer.ParseError{Format: "dotenv", Message: err.Error()}
	}

	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := splitLines(source)
	keys := make(keyedSet, 0, len(names))
	for _, name := range names {
		line := dotenvLocator.locate(lines, name, 1, len(lines))
		keys = append(keys, keyed{
			path: name,
			el: analyzer.RawElement{
				Name:     name,
				Line:     line,
				EndLine:  line + strings.Count(env[name], "\n"),
				Category: analyzer.Key,
			},
		})
	}
	return keys, nil
}

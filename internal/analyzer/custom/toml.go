package custom

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

var tomlHeaderPattern = regexp.MustCompile(`^\s*(\[\[?)\s*([^\[\]]+?)\s*\]\]?\s*(#.*)?$`)

// tomlTable is a table header and the lines it governs.
type tomlTable struct {
	path  string
	array bool
	index int // occurrence of an array table
	line  int
	end   int
}

// TOML reports tables as sections and their direct keys as keys. The
// document is decoded for validity and key names; lines are recovered from
// the text.
type TOML struct{}

// Extract implements analyzer.Analyzer.
func (t TOML) Extract(source []byte) (analyzer.RawMapping, error) {
	keys, err := t.keys(source)
	if err != nil {
		return nil, err
	}
	return keys.mapping(), nil
}

// ExtractNamed implements analyzer.NamedExtractor.
func (t TOML) ExtractNamed(source []byte, name string) (analyzer.RawElement, bool) {
	keys, err := t.keys(source)
	if err != nil {
		return analyzer.RawElement{}, false
	}
	return keys.named(name)
}

func (t TOML) keys(source []byte) (keyedSet, error) {
	var doc map[string]any
	if err := toml.Unmarshal(source, &doc); err != nil {
		perr := &analyzer.ParseError{Format: "toml", Message: err.Error()}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, _ = derr.Position()
		}
		return nil, perr
	}

	lines := splitLines(source)
	tables := tomlTables(lines)
	headers := make(map[string]bool, len(tables))
	for _, tbl := range tables {
		headers[tbl.path] = true
	}

	var keys keyedSet

	rootEnd := len(lines)
	if len(tables) > 0 {
		rootEnd = tables[0].line - 1
	}
	keys = append(keys, tomlKeys(lines, doc, "", 1, rootEnd, headers)...)

	for _, tbl := range tables {
		keys = append(keys, keyed{
			path: tbl.path,
			el: analyzer.RawElement{
				Name:     tbl.path,
				Line:     tbl.line,
				EndLine:  tbl.end,
				Category: analyzer.Section,
			},
		})

		values := tomlLookup(doc, tbl)
		keys = append(keys, tomlKeys(lines, values, tbl.path, tbl.line+1, tbl.end, headers)...)
	}

	return keys, nil
}

// tomlTables scans headers; each table ends where the next one begins.
func tomlTables(lines []string) []tomlTable {
	var tables []tomlTable
	seen := map[string]int{}
	inString := false

	for i, line := range lines {
		if strings.Count(line, `"""`)%2 == 1 || strings.Count(line, `'''`)%2 == 1 {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		m := tomlHeaderPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		tbl := tomlTable{
			path:  normalizeTOMLKey(m[2]),
			array: m[1] == "[[",
			line:  i + 1,
		}
		if tbl.array {
			tbl.index = seen[tbl.path]
			seen[tbl.path]++
		}
		tables = append(tables, tbl)
	}

	for i := range tables {
		if i+1 < len(tables) {
			tables[i].end = tables[i+1].line - 1
		} else {
			tables[i].end = len(lines)
		}
	}
	return tables
}

// normalizeTOMLKey removes quoting and whitespace around dotted key parts.
func normalizeTOMLKey(key string) string {
	parts := strings.Split(key, ".")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"'`)
	}
	return strings.Join(parts, ".")
}

// tomlLookup resolves the decoded value for a table header.
func tomlLookup(doc map[string]any, tbl tomlTable) map[string]any {
	var cur any = doc
	parts := strings.Split(tbl.path, ".")
	for i, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
		if arr, ok := cur.([]any); ok {
			idx := len(arr) - 1
			if i == len(parts)-1 {
				idx = tbl.index
			}
			if idx < 0 || idx >= len(arr) {
				return nil
			}
			cur = arr[idx]
		}
	}
	m, _ := cur.(map[string]any)
	return m
}

func tomlKeys(lines []string, values map[string]any, prefix string, from, to int, headers map[string]bool) keyedSet {
	var keys keyedSet
	for name := range values {
		path := joinPath(prefix, name)
		if headers[path] || hasHeaderBelow(headers, path) {
			continue
		}
		keys = append(keys, keyed{
			path: path,
			el: analyzer.RawElement{
				Name:     name,
				Line:     tomlLocator.locate(lines, name, from, to),
				Category: analyzer.Key,
			},
		})
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].el.Line != keys[j].el.Line {
			return keys[i].el.Line < keys[j].el.Line
		}
		return keys[i].el.Name < keys[j].el.Name
	})
	return keys
}

// hasHeaderBelow reports whether path is only an implicit parent of a
// declared table, such as "a" for [a.b].
func hasHeaderBelow(headers map[string]bool, path string) bool {
	for h := range headers {
		if strings.HasPrefix(h, path+".") {
			return true
		}
	}
	return false
}

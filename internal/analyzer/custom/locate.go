package custom

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// UnresolvedLine is assigned to elements whose definition could not be found
// in the text. Every element must carry a line, so it is never dropped.
const UnresolvedLine = 1

// splitLines splits source into lines without their terminators.
func splitLines(source []byte) []string {
	if len(source) == 0 {
		return nil
	}
	text := strings.TrimSuffix(string(source), "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// tokens splits a line into name-like tokens.
func tokens(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		switch r {
		case '_', '-', '.', '$', '@', '/':
			return false
		}
		return true
	})
}

// FindLine returns the first line in [from, to] (1-indexed, inclusive) that
// plausibly defines name, or 0 when none does. A line whose first token is
// name beats a line containing name as any token, which beats a line merely
// containing name as a substring.
func FindLine(lines []string, name string, from, to int) int {
	if name == "" {
		return 0
	}
	if from < 1 {
		from = 1
	}
	if to <= 0 || to > len(lines) {
		to = len(lines)
	}

	anyToken, substring := 0, 0
	for n := from; n <= to; n++ {
		line := lines[n-1]
		if !strings.Contains(line, name) {
			continue
		}
		toks := tokens(line)
		if len(toks) > 0 && toks[0] == name {
			return n
		}
		if anyToken == 0 {
			for _, tok := range toks {
				if tok == name {
					anyToken = n
					break
				}
			}
		}
		if substring == 0 {
			substring = n
		}
	}

	if anyToken > 0 {
		return anyToken
	}
	return substring
}

// LocateOrDefault is FindLine with the UnresolvedLine fallback: a narrow
// range is searched first, then the whole file.
func LocateOrDefault(lines []string, name string, from, to int) int {
	if n := FindLine(lines, name, from, to); n > 0 {
		return n
	}
	if n := FindLine(lines, name, 1, len(lines)); n > 0 {
		return n
	}
	return UnresolvedLine
}

// keyLocator finds the line that assigns a key in a line-oriented format.
type keyLocator struct {
	comments   []string // line comment markers
	separators string   // characters that may follow a key being assigned
	prefixes   []string // optional keywords before a key, such as "export "
}

var (
	tomlLocator   = keyLocator{comments: []string{"#"}, separators: "=."}
	iniLocator    = keyLocator{comments: []string{"#", ";"}, separators: "=:"}
	dotenvLocator = keyLocator{comments: []string{"#"}, separators: "=:", prefixes: []string{"export "}}
)

func (kl keyLocator) comment(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, c := range kl.comments {
		if strings.HasPrefix(trimmed, c) {
			return true
		}
	}
	return false
}

// assigns reports whether line starts with name, optionally quoted, followed
// by one of the separators.
func (kl keyLocator) assigns(line, name string) bool {
	rest := strings.TrimSpace(line)
	for _, p := range kl.prefixes {
		rest = strings.TrimPrefix(rest, p)
	}
	rest = strings.TrimLeft(rest, " \t")
	for _, q := range []string{`"`, `'`, ""} {
		if strings.HasPrefix(rest, q+name+q) {
			after := strings.TrimLeft(rest[len(q+name+q):], " \t")
			if after != "" && strings.ContainsRune(kl.separators, rune(after[0])) {
				return true
			}
		}
	}
	return false
}

// find returns the first line in [from, to] assigning name. Failing that it
// falls back to FindLine with comment lines ignored. Zero means no match.
func (kl keyLocator) find(lines []string, name string, from, to int) int {
	if name == "" {
		return 0
	}
	from = max(from, 1)
	if to <= 0 || to > len(lines) {
		to = len(lines)
	}
	for n := from; n <= to; n++ {
		if !kl.comment(lines[n-1]) && kl.assigns(lines[n-1], name) {
			return n
		}
	}

	code := make([]string, len(lines))
	for i, line := range lines {
		if !kl.comment(line) {
			code[i] = line
		}
	}
	return FindLine(code, name, from, to)
}

// locate is find with the UnresolvedLine fallback: the range first, then the
// whole file.
func (kl keyLocator) locate(lines []string, name string, from, to int) int {
	if n := kl.find(lines, name, from, to); n > 0 {
		return n
	}
	if n := kl.find(lines, name, 1, len(lines)); n > 0 {
		return n
	}
	return UnresolvedLine
}

// header returns the first non-comment line in [from, len(lines)] that opens
// the section [name], or 0.
func (kl keyLocator) header(lines []string, name string, from int) int {
	for n := max(from, 1); n <= len(lines); n++ {
		trimmed := strings.TrimSpace(lines[n-1])
		if kl.comment(trimmed) || !strings.HasPrefix(trimmed, "[") {
			continue
		}
		inner, _, ok := strings.Cut(trimmed[1:], "]")
		if ok && strings.TrimSpace(inner) == name {
			return n
		}
	}
	return 0
}

// lineOffsets maps byte offsets to 1-indexed line numbers.
type lineOffsets []int

func newLineOffsets(source []byte) lineOffsets {
	var newlines lineOffsets
	for i, b := range source {
		if b == '\n' {
			newlines = append(newlines, i)
		}
	}
	return newlines
}

// lineAt returns the line containing byte offset off.
func (lo lineOffsets) lineAt(off int) int {
	return sort.SearchInts(lo, off) + 1
}

// keyed is a raw element together with its dotted key path.
type keyed struct {
	path string
	el   analyzer.RawElement
}

// keyedSet collects elements of keyed formats in source order.
type keyedSet []keyed

func (ks keyedSet) mapping() analyzer.RawMapping {
	raw := analyzer.RawMapping{}
	sorted := make(keyedSet, len(ks))
	copy(sorted, ks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].el.Line < sorted[j].el.Line
	})
	for _, k := range sorted {
		raw.Add(k.el)
	}
	return raw
}

// named finds an element by exact dotted path, then by bare name.
func (ks keyedSet) named(name string) (analyzer.RawElement, bool) {
	for _, k := range ks {
		if k.path == name {
			return k.el, true
		}
	}
	for _, k := range ks {
		if k.el.Name == name {
			return k.el, true
		}
	}
	return analyzer.RawElement{}, false
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

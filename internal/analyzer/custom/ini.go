package custom

import (
	"github.com/go-ini/ini"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// INI reports named sections and every key, including keys before the
// first section header.
type INI struct{}

// Extract implements analyzer.Analyzer.
func (i INI) Extract(source []byte) (analyzer.RawMapping, error) {
	keys, err := i.keys(source)
	if err != nil {
		return nil, err
	}
	return keys.mapping(), nil
}

// ExtractNamed implements analyzer.NamedExtractor.
func (i INI) ExtractNamed(source []byte, name string) (analyzer.RawElement, bool) {
	keys, err := i.keys(source)
	if err != nil {
		return analyzer.RawElement{}, false
	}
	return keys.named(name)
}

func (i INI) keys(source []byte) (keyedSet, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:        true,
		SkipUnrecognizableLines: false,
	}, source)
	if err != nil {
		return nil, &analyzer.ParseError{Format: "ini", Message: err.Error()}
	}

	lines := splitLines(source)

	// Locate section headers first so each key search stays inside its
	// section.
	type span struct {
		name     string
		line     int
		keyNames []string
	}
	var spans []span
	cursor := 1
	for _, sec := range cfg.Sections() {
		s := span{name: sec.Name(), keyNames: sec.KeyStrings()}
		if sec.Name() != ini.DefaultSection {
			s.line = iniLocator.header(lines, sec.Name(), cursor)
			if s.line == 0 {
				s.line = iniLocator.locate(lines, sec.Name(), cursor, len(lines))
			} else {
				cursor = s.line
			}
		}
		spans = append(spans, s)
	}

	var keys keyedSet
	for idx, s := range spans {
		from, to := s.line+1, len(lines)
		for _, next := range spans[idx+1:] {
			if next.line > s.line {
				to = next.line - 1
				break
			}
		}

		prefix := ""
		if s.name != ini.DefaultSection {
			prefix = s.name
			keys = append(keys, keyed{
				path: s.name,
				el: analyzer.RawElement{
					Name:     s.name,
					Line:     s.line,
					EndLine:  max(to, s.line),
					Category: analyzer.Section,
				},
			})
		}

		for _, k := range s.keyNames {
			line := iniLocator.locate(lines, k, from, to)
			keys = append(keys, keyed{
				path: joinPath(prefix, k),
				el: analyzer.RawElement{
					Name:     k,
					Line:     line,
					EndLine:  line,
					Category: analyzer.Key,
				},
			})
		}
	}

	return keys, nil
}

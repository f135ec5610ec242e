package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/mvp-joe/project-outline/internal/analyzer"
	"github.com/mvp-joe/project-outline/internal/structure"
)

// Extract returns the verbatim source of every element matching name. All
// matches are returned so callers can see ambiguity; no match yields an empty
// slice. Analyzers that resolve names directly are consulted when the tree
// has no match, so dotted key paths work for data formats.
func (e *Engine) Extract(ctx context.Context, path, name string) ([]structure.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	desc, err := e.registry.Resolve(path)
	if err != nil {
		return nil, err
	}
	if !desc.Features.Extract {
		return nil, fmt.Errorf("%w: %s", ErrExtractUnsupported, desc.Name)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	source, err := e.readSource(path, info)
	if err != nil {
		return nil, err
	}
	lines := structure.SplitLines(source)

	raw, elements, err := e.structureOf(desc, source, len(lines))
	if err != nil {
		if raw.Len() == 0 && !errors.Is(err, analyzer.ErrParse) {
			return []structure.Extraction{}, err
		}
		if e.verbose {
			log.Printf("Warning: %s: %v", path, err)
		}
	}

	matches := structure.Locate(elements, name)
	out := make([]structure.Extraction, 0, len(matches))
	for _, m := range matches {
		out = append(out, structure.ExtractSpan(m, lines).Extraction(m.Name))
	}
	if len(out) > 0 {
		return out, nil
	}

	named, ok := e.analyzers[desc.Analyzer].(analyzer.NamedExtractor)
	if !ok {
		return out, nil
	}
	el, found := named.ExtractNamed(source, name)
	if !found {
		return out, nil
	}
	end := el.EndLine
	if end < el.Line {
		end = el.Line
	}
	return append(out, structure.SliceLines(lines, el.Line, end).Extraction(el.Name)), nil
}

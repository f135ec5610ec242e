// Package engine ties the registry, analyzers and normalizer together.
//
// A request flows path → descriptor → level → analyzer → normalizer. Levels
// without an analyzer binding are served by the built-in handlers: file
// metadata at level 0 and paged content at level 3.
package engine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mvp-joe/project-outline/internal/analyzer"
	"github.com/mvp-joe/project-outline/internal/analyzer/custom"
	"github.com/mvp-joe/project-outline/internal/analyzer/treesitter"
	"github.com/mvp-joe/project-outline/internal/config"
	"github.com/mvp-joe/project-outline/internal/registry"
	"github.com/mvp-joe/project-outline/internal/structure"
)

// Options selects what Analyze returns.
type Options struct {
	// Level to serve. Negative selects the descriptor's default level.
	Level int

	// Offset is the first line of a level-3 page, 1-indexed. Zero means 1.
	Offset int

	// Limit is the number of lines in a level-3 page. Zero means the
	// configured page size.
	Limit int
}

// DefaultOptions serves each file at its default level.
func DefaultOptions() Options {
	return Options{Level: -1}
}

// Metadata describes the file itself.
type Metadata struct {
	Size     int64     `json:"size"`
	Lines    int       `json:"lines"`
	Modified time.Time `json:"modified"`
}

// Page is a window of verbatim file content.
type Page struct {
	Offset     int    `json:"offset"`
	Limit      int    `json:"limit"`
	TotalLines int    `json:"total_lines"`
	Text       string `json:"text"`
	HasMore    bool   `json:"has_more"`
}

// FileResult is the answer to one Analyze call. Results may be shared through
// the cache and must be treated as read-only.
type FileResult struct {
	Path       string               `json:"path"`
	Descriptor string               `json:"descriptor"`
	Icon       string               `json:"icon,omitempty"`
	Level      int                  `json:"level"`
	LevelName  string               `json:"level_name"`
	Breadcrumb string               `json:"breadcrumb,omitempty"`
	Metadata   Metadata             `json:"metadata"`
	Raw        analyzer.RawMapping  `json:"raw,omitempty"`
	Elements   []*structure.Element `json:"elements"`
	Previews   map[string]string    `json:"previews,omitempty"`
	Content    *Page                `json:"content,omitempty"`
	NextLevels []int                `json:"next_levels"`
	Tips       []string             `json:"tips,omitempty"`

	// Error reports an analyzer failure. The structure is then empty or
	// partial but still valid.
	Error string `json:"error,omitempty"`
	Err   error  `json:"-"`

	// Removed is set by Watch when a watched file disappeared.
	Removed bool `json:"removed,omitempty"`
}

// Engine serves structure requests. It is safe for concurrent use.
type Engine struct {
	registry  *registry.Registry
	analyzers map[string]analyzer.Analyzer
	cfg       *config.Config
	cache     *resultCache
	verbose   bool
}

// New builds an engine with every built-in analyzer and the descriptors
// named by cfg.
func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	analyzers := custom.Analyzers()
	for _, name := range treesitter.Languages() {
		g, err := treesitter.NewAnalyzer(name)
		if err != nil {
			// The name stays known to the registry; requests report the
			// missing grammar per file.
			log.Printf("Warning: analyzer %s unavailable: %v", name, err)
			continue
		}
		analyzers[name] = g
	}

	names := append(treesitter.Languages(), mapKeys(custom.Analyzers())...)
	reg, err := registry.Load(cfg.Descriptors, names)
	if err != nil {
		return nil, fmt.Errorf("failed to load descriptors: %w", err)
	}

	return NewWithRegistry(cfg, reg, analyzers)
}

// NewWithRegistry builds an engine from an existing registry and analyzer set.
func NewWithRegistry(cfg *config.Config, reg *registry.Registry, analyzers map[string]analyzer.Analyzer) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	cache, err := newResultCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	return &Engine{
		registry:  reg,
		analyzers: analyzers,
		cfg:       cfg,
		cache:     cache,
	}, nil
}

// SetVerbose enables logging of per-file analyzer failures.
func (e *Engine) SetVerbose(verbose bool) {
	e.verbose = verbose
}

// Registry returns the engine's descriptor registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Config returns the engine's configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Close releases the result cache.
func (e *Engine) Close() {
	e.cache.close()
}

// Invalidate drops cached results for path.
func (e *Engine) Invalidate(path string) {
	e.cache.invalidate(absPath(path))
}

// Analyze returns the structure of path at the requested level. Unsupported
// files, undeclared levels, unreadable files and oversized files are errors;
// analyzer failures are reported in FileResult.Error.
func (e *Engine) Analyze(ctx context.Context, path string, opts Options) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	desc, err := e.registry.Resolve(path)
	if err != nil {
		return nil, err
	}

	level := opts.Level
	if level < 0 {
		level = registry.DefaultLevel(desc)
	}
	ld, err := registry.ResolveLevel(desc, level)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	abs := absPath(path)
	key := newCacheKey(abs, level, opts, info)
	if cached, ok := e.cache.get(key); ok {
		return cached, nil
	}

	result := &FileResult{
		Path:       path,
		Descriptor: desc.Name,
		Icon:       desc.Icon,
		Level:      level,
		LevelName:  ld.Name,
		Breadcrumb: ld.Breadcrumb,
		Elements:   []*structure.Element{},
		NextLevels: append([]int{}, ld.NextLevels...),
		Tips:       ld.Tips,
		Metadata: Metadata{
			Size:     info.Size(),
			Modified: info.ModTime(),
		},
	}

	if ld.Builtin() && level == registry.LevelMetadata {
		lines, err := countFileLines(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		result.Metadata.Lines = lines
		e.cache.set(key, result)
		return result, nil
	}

	source, err := e.readSource(path, info)
	if err != nil {
		return nil, err
	}
	lines := structure.SplitLines(source)
	result.Metadata.Lines = len(lines)

	switch {
	case ld.Builtin():
		result.Content = e.page(lines, opts)
	default:
		raw, elements, err := e.structureOf(desc, source, len(lines))
		result.Raw = raw
		result.Elements = elements
		if err != nil {
			result.Err = err
			result.Error = err.Error()
			if e.verbose {
				log.Printf("Warning: %s: %v", path, err)
			}
		}
		if ld.Analyzer == registry.RefPreview {
			result.Previews = e.previews(elements, lines)
		}
	}

	e.cache.set(key, result)
	return result, nil
}

// readSource loads path after checking it against the size limits.
func (e *Engine) readSource(path string, info os.FileInfo) ([]byte, error) {
	limits := e.cfg.Limits
	if limits.MaxFileBytes > 0 && info.Size() > limits.MaxFileBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, path, info.Size(), limits.MaxFileBytes)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if limits.MaxLines > 0 {
		if n := lineCount(source); n > limits.MaxLines {
			return nil, fmt.Errorf("%w: %s has %d lines (limit %d)", ErrTooLarge, path, n, limits.MaxLines)
		}
	}
	return source, nil
}

// structureOf runs the descriptor's analyzer and normalizes its output.
func (e *Engine) structureOf(desc *registry.Descriptor, source []byte, totalLines int) (analyzer.RawMapping, []*structure.Element, error) {
	a, ok := e.analyzers[desc.Analyzer]
	if !ok || a == nil {
		return analyzer.RawMapping{}, []*structure.Element{},
			fmt.Errorf("%w: %s", analyzer.ErrGrammarUnavailable, desc.Analyzer)
	}

	raw, err := runAnalyzer(a, source)
	if raw == nil {
		raw = analyzer.RawMapping{}
	}
	return raw, structure.Build(raw, totalLines), err
}

// runAnalyzer converts an analyzer panic into an error.
func runAnalyzer(a analyzer.Analyzer, source []byte) (raw analyzer.RawMapping, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw = nil
			err = fmt.Errorf("%w: %v", ErrAnalyzerFailed, r)
		}
	}()
	return a.Extract(source)
}

// previews returns the first lines of every element, keyed by path.
func (e *Engine) previews(elements []*structure.Element, lines []string) map[string]string {
	n := e.cfg.Levels.PreviewLines
	out := make(map[string]string)
	structure.Walk(elements, func(el *structure.Element) bool {
		end := el.EndLine
		if n > 0 && el.StartLine+n-1 < end {
			end = el.StartLine + n - 1
		}
		out[el.Path] = structure.SliceLines(lines, el.StartLine, end).Text
		return true
	})
	return out
}

// page returns the requested window of lines.
func (e *Engine) page(lines []string, opts Options) *Page {
	offset := opts.Offset
	if offset < 1 {
		offset = 1
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = e.cfg.Levels.PageSize
	}
	if limit <= 0 {
		limit = len(lines)
	}

	p := &Page{
		Offset:     offset,
		Limit:      limit,
		TotalLines: len(lines),
	}
	if offset > len(lines) {
		return p
	}

	last := offset + limit - 1
	p.Text = structure.SliceLines(lines, offset, last).Text
	p.HasMore = last < len(lines)
	return p
}

// lineCount counts lines the way structure.SplitLines splits them.
func lineCount(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	n := bytes.Count(source, []byte{'\n'})
	if source[len(source)-1] != '\n' {
		n++
	}
	return n
}

// countFileLines counts lines without holding the whole file in memory.
func countFileLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	buf := make([]byte, 32*1024)
	lines := 0
	var last byte
	read := false
	for {
		n, err := r.Read(buf)
		if n > 0 {
			lines += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
			read = true
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if read && last != '\n' {
		lines++
	}
	return lines, nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

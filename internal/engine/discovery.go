package engine

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/project-outline/internal/registry"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
	// rootGlob matches files in the root directory for "**/" patterns.
	rootGlob glob.Glob
}

// Discovery finds the files under a root that the registry can handle.
type Discovery struct {
	rootDir         string
	registry        *registry.Registry
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
}

// NewDiscovery compiles include and ignore globs relative to rootDir.
func NewDiscovery(rootDir string, reg *registry.Registry, include, ignore []string) (*Discovery, error) {
	d := &Discovery{
		rootDir:  rootDir,
		registry: reg,
	}

	var err error
	if d.includePatterns, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if d.ignorePatterns, err = compilePatterns(ignore); err != nil {
		return nil, err
	}
	return d, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		cp := compiledPattern{pattern: pattern, glob: g}
		if simplified, ok := strings.CutPrefix(pattern, "**/"); ok {
			if sg, err := glob.Compile(simplified, '/'); err == nil {
				cp.rootGlob = sg
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

// Discover walks the tree and returns every supported file, in walk order.
func (d *Discovery) Discover() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(d.rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if path != d.rootDir && d.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Match(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// Match reports whether path is included, not ignored, and has a descriptor.
func (d *Discovery) Match(path string) bool {
	relPath, ok := d.rel(path)
	if !ok {
		return false
	}
	if d.shouldIgnore(relPath) {
		return false
	}
	if len(d.includePatterns) > 0 && !matchesAnyPattern(relPath, d.includePatterns) {
		return false
	}
	_, err := d.registry.Resolve(path)
	return err == nil
}

// SkipDir reports whether a directory is ignored as a whole.
func (d *Discovery) SkipDir(path string) bool {
	relPath, ok := d.rel(path)
	if !ok || relPath == "." {
		return false
	}
	return d.shouldIgnore(relPath)
}

func (d *Discovery) rel(path string) (string, bool) {
	relPath, err := filepath.Rel(d.rootDir, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return "", false
	}
	// Normalize path separators for glob matching
	return filepath.ToSlash(relPath), true
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	if matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}

	// "node_modules" should match pattern "node_modules/**"
	return matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns. A
// "**/" pattern also matches files in the root, so "**/*.md" matches both
// "README.md" and "docs/guide.md".
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	inRoot := !strings.Contains(path, "/")
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if inRoot && cp.rootGlob != nil && cp.rootGlob.Match(path) {
			return true
		}
	}
	return false
}

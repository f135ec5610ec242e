package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Builder collects descriptors during startup. Call Freeze once registration
// is done.
type Builder struct {
	mu     sync.Mutex
	known  map[string]bool
	byExt  map[string]*Descriptor
	byName map[string]*Descriptor
}

// NewBuilder creates a builder. analyzers, when non-empty, restricts the
// analyzer names descriptors may bind.
func NewBuilder(analyzers ...string) *Builder {
	b := &Builder{
		byExt:  make(map[string]*Descriptor),
		byName: make(map[string]*Descriptor),
	}
	if len(analyzers) > 0 {
		b.known = make(map[string]bool, len(analyzers))
		for _, a := range analyzers {
			b.known[a] = true
		}
	}
	return b
}

// Register binds extensions to d. Registering a descriptor under a name that
// is already registered replaces the earlier one, which makes reloading
// configuration idempotent. An extension already bound to a descriptor with
// a different name fails with *DuplicateExtensionError and nothing is bound.
func (b *Builder) Register(extensions []string, d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidDescriptor)
	}
	if len(extensions) == 0 {
		extensions = d.Extensions
	}
	if len(d.Extensions) == 0 {
		d.Extensions = extensions
	}
	if err := d.Validate(b.known); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ext := range extensions {
		key := normalizeExtension(ext)
		if existing, ok := b.byExt[key]; ok && existing.Name != d.Name {
			return &DuplicateExtensionError{Extension: ext, Existing: existing.Name, Incoming: d.Name}
		}
	}

	if prev, ok := b.byName[d.Name]; ok {
		for ext, bound := range b.byExt {
			if bound == prev {
				delete(b.byExt, ext)
			}
		}
	}

	b.byName[d.Name] = d
	for _, ext := range extensions {
		b.byExt[normalizeExtension(ext)] = d
	}
	return nil
}

// Freeze returns the immutable lookup table. The builder should not be used
// afterwards.
func (b *Builder) Freeze() *Registry {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := &Registry{
		byExt:  make(map[string]*Descriptor, len(b.byExt)),
		byName: make(map[string]*Descriptor, len(b.byName)),
	}
	for ext, d := range b.byExt {
		r.byExt[ext] = d
	}
	for name, d := range b.byName {
		r.byName[name] = d
		r.sorted = append(r.sorted, d)
	}
	sort.Slice(r.sorted, func(i, j int) bool {
		return r.sorted[i].Name < r.sorted[j].Name
	})
	return r
}

// Registry is a read-only extension table, safe for concurrent lookups.
type Registry struct {
	byExt  map[string]*Descriptor
	byName map[string]*Descriptor
	sorted []*Descriptor
}

// Resolve returns the descriptor for path. The full file name is tried first,
// then every dot suffix from longest to shortest, so "x.spec.ts" prefers
// ".spec.ts" over ".ts". Matching ignores case.
func (r *Registry) Resolve(path string) (*Descriptor, error) {
	for _, candidate := range candidates(filepath.Base(path)) {
		if d, ok := r.byExt[candidate]; ok {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
}

// Lookup returns a descriptor by name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Descriptors returns all registered descriptors sorted by name.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// Extensions returns the extensions bound to d, sorted.
func (r *Registry) Extensions(d *Descriptor) []string {
	var exts []string
	for ext, bound := range r.byExt {
		if bound == d {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

func candidates(base string) []string {
	base = strings.ToLower(base)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return nil
	}

	out := []string{base}
	for i := 0; i < len(base); i++ {
		if base[i] == '.' && i > 0 {
			out = append(out, base[i:])
		}
	}
	return out
}

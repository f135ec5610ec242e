package registry

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed descriptors.yaml
var builtinDescriptors []byte

// File is the YAML shape of a descriptor configuration. Templates exists
// only to hold anchors that descriptors alias.
type File struct {
	Templates   map[string]yaml.Node `yaml:"templates"`
	Descriptors []*Descriptor        `yaml:"descriptors"`
}

// ParseDescriptors decodes a descriptor configuration.
func ParseDescriptors(data []byte) ([]*Descriptor, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}

	for _, d := range f.Descriptors {
		if d == nil {
			return nil, fmt.Errorf("%w: empty descriptor entry", ErrInvalidDescriptor)
		}
		// Aliased level tables decode to fresh values; stamp each with its key.
		levels := make(map[int]*LevelDescriptor, len(d.Levels))
		for n, ld := range d.Levels {
			if ld != nil {
				cp := *ld
				cp.Level = n
				ld = &cp
			}
			levels[n] = ld
		}
		d.Levels = levels
	}
	return f.Descriptors, nil
}

// BuiltinDescriptors returns the descriptors compiled into the binary.
func BuiltinDescriptors() ([]*Descriptor, error) {
	return ParseDescriptors(builtinDescriptors)
}

// RegisterAll registers every descriptor, stopping at the first failure.
func (b *Builder) RegisterAll(descriptors []*Descriptor) error {
	for _, d := range descriptors {
		if err := b.Register(d.Extensions, d); err != nil {
			return err
		}
	}
	return nil
}

// Load builds a registry from the built-in descriptors plus an optional
// user file. User descriptors with a built-in name replace it; analyzers
// restricts the analyzer names descriptors may bind.
func Load(extraPath string, analyzers []string) (*Registry, error) {
	b := NewBuilder(analyzers...)

	builtin, err := BuiltinDescriptors()
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in descriptors: %w", err)
	}
	if err := b.RegisterAll(builtin); err != nil {
		return nil, fmt.Errorf("failed to register built-in descriptors: %w", err)
	}

	if extraPath != "" {
		data, err := os.ReadFile(extraPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read descriptors file: %w", err)
		}
		extra, err := ParseDescriptors(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", extraPath, err)
		}
		if err := b.RegisterAll(extra); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", extraPath, err)
		}
	}

	return b.Freeze(), nil
}

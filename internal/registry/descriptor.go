// Package registry maps file names to analyzer descriptors and resolves the
// disclosure levels each descriptor declares.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Levels of progressive disclosure.
const (
	LevelMetadata  = 0
	LevelStructure = 1
	LevelPreview   = 2
	LevelFull      = 3
)

// Analyzer references a level may bind. An empty reference means the level
// is served by a built-in handler (metadata at level 0, content at level 3).
const (
	RefBuiltin   = ""
	RefStructure = "structure"
	RefPreview   = "preview"
)

// Descriptor identifies one file-type handler.
type Descriptor struct {
	Name       string                   `yaml:"name" json:"name" validate:"required"`
	Extensions []string                 `yaml:"extensions" json:"extensions" validate:"required,min=1,dive,required"`
	Icon       string                   `yaml:"icon" json:"icon,omitempty"`
	Analyzer   string                   `yaml:"analyzer" json:"analyzer" validate:"required"`
	Levels     map[int]*LevelDescriptor `yaml:"levels" json:"levels" validate:"required,min=1"`
	Features   Features                 `yaml:"features" json:"features"`
}

// Features are capability flags of a descriptor.
type Features struct {
	Paging  bool `yaml:"paging" json:"paging"`
	Grep    bool `yaml:"grep" json:"grep"`
	Extract bool `yaml:"extract" json:"extract"`
}

// LevelDescriptor is the static configuration of one level.
type LevelDescriptor struct {
	Level      int      `yaml:"-" json:"level"`
	Name       string   `yaml:"name" json:"name" validate:"required"`
	Breadcrumb string   `yaml:"breadcrumb" json:"breadcrumb,omitempty"`
	Analyzer   string   `yaml:"analyzer" json:"analyzer,omitempty" validate:"omitempty,oneof=structure preview"`
	Outputs    []string `yaml:"outputs" json:"outputs,omitempty"`
	NextLevels []int    `yaml:"next_levels" json:"next_levels"`
	Tips       []string `yaml:"tips" json:"tips,omitempty"`
	Paging     bool     `yaml:"paging" json:"paging"`
	Grep       bool     `yaml:"grep" json:"grep"`
}

// Builtin reports whether the level is served without an analyzer.
func (l *LevelDescriptor) Builtin() bool {
	return l.Analyzer == RefBuiltin
}

// DeclaredLevels returns the descriptor's levels in ascending order.
func (d *Descriptor) DeclaredLevels() []int {
	levels := make([]int, 0, len(d.Levels))
	for l := range d.Levels {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}

var validate = validator.New()

// Validate checks a descriptor's shape and its level transitions. known, when
// non-nil, lists the analyzer names the descriptor may bind.
func (d *Descriptor) Validate(known map[string]bool) error {
	var errs []error

	errs = append(errs, structErrors(d.Name, d)...)

	if known != nil && d.Analyzer != "" && !known[d.Analyzer] {
		errs = append(errs, fmt.Errorf("%w: %s: analyzer %q is not available", ErrInvalidDescriptor, d.Name, d.Analyzer))
	}

	for _, ext := range d.Extensions {
		if strings.TrimSpace(ext) != ext || strings.ContainsAny(ext, `/\`) {
			errs = append(errs, fmt.Errorf("%w: %s: malformed extension %q", ErrInvalidDescriptor, d.Name, ext))
		}
	}

	for _, level := range d.DeclaredLevels() {
		ld := d.Levels[level]
		if level < LevelMetadata || level > LevelFull {
			errs = append(errs, fmt.Errorf("%w: %s: level %d outside 0-3", ErrInvalidDescriptor, d.Name, level))
		}
		if ld == nil {
			errs = append(errs, fmt.Errorf("%w: %s: level %d is empty", ErrInvalidDescriptor, d.Name, level))
			continue
		}
		errs = append(errs, structErrors(fmt.Sprintf("%s level %d", d.Name, level), ld)...)
		if ld.Builtin() && level != LevelMetadata && level != LevelFull {
			errs = append(errs, fmt.Errorf("%w: %s: level %d needs an analyzer", ErrInvalidDescriptor, d.Name, level))
		}
		for _, next := range ld.NextLevels {
			if next == level {
				errs = append(errs, fmt.Errorf("%w: %s: level %d lists itself as a next level", ErrInvalidDescriptor, d.Name, level))
				continue
			}
			if _, ok := d.Levels[next]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s: level %d points to undeclared level %d", ErrInvalidDescriptor, d.Name, level, next))
			}
		}
	}

	return joinErrors(errs)
}

func structErrors(owner string, s any) []error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{fmt.Errorf("%w: %s: %v", ErrInvalidDescriptor, owner, err)}
	}

	errs := make([]error, 0, len(verrs))
	for _, e := range verrs {
		errs = append(errs, fmt.Errorf("%w: %s: field '%s' failed rule '%s'", ErrInvalidDescriptor, owner, e.Field(), e.Tag()))
	}
	return errs
}

// normalizeExtension lower-cases an extension. Entries without a leading dot
// are full file names such as "Makefile".
func normalizeExtension(ext string) string {
	return strings.ToLower(ext)
}

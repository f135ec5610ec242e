package analyzer

import "sort"

// Category is a language-independent semantic tag for a structural element.
type Category string

const (
	Import       Category = "import"
	Class        Category = "class"
	Struct       Category = "struct"
	Interface    Category = "interface"
	Trait        Category = "trait"
	Enum         Category = "enum"
	Function     Category = "function"
	Method       Category = "method"
	StaticMethod Category = "staticmethod"
	ClassMethod  Category = "classmethod"
	Property     Category = "property"
	Attribute    Category = "attribute"
	Section      Category = "section"
	Key          Category = "key"
)

// Categories lists the closed category set in declaration order.
// The order breaks ties between elements that share an identical line range.
var Categories = []Category{
	Import, Class, Struct, Interface, Trait, Enum,
	Function, Method, StaticMethod, ClassMethod,
	Property, Attribute, Section, Key,
}

var categoryRank = func() map[Category]int {
	m := make(map[Category]int, len(Categories))
	for i, c := range Categories {
		m[c] = i
	}
	return m
}()

// Known reports whether c belongs to the closed category set.
func (c Category) Known() bool {
	_, ok := categoryRank[c]
	return ok
}

// RawElement is an analyzer-native structural fact, before normalization.
// Line numbers are 1-indexed. EndLine is 0 when the analyzer does not know
// where the element ends.
type RawElement struct {
	Name       string   `json:"name"`
	Line       int      `json:"line"`
	EndLine    int      `json:"end_line,omitempty"`
	Decorators []string `json:"decorators,omitempty"`
	Category   Category `json:"category"`

	// Scope names the type an element belongs to when it is declared outside
	// that type's body, like the receiver of a Go method. It prefixes the
	// element's qualified path, not its name.
	Scope string `json:"scope,omitempty"`
}

// HasEnd reports whether the analyzer supplied an end line.
func (e RawElement) HasEnd() bool {
	return e.EndLine > 0
}

// RawMapping groups raw elements by category. Each list is in source order.
type RawMapping map[Category][]RawElement

// Add appends an element under its own category.
func (m RawMapping) Add(el RawElement) {
	m[el.Category] = append(m[el.Category], el)
}

// Merge appends every element of other into m.
func (m RawMapping) Merge(other RawMapping) {
	for _, cat := range other.OrderedCategories() {
		m[cat] = append(m[cat], other[cat]...)
	}
}

// Len returns the total number of elements across all categories.
func (m RawMapping) Len() int {
	n := 0
	for _, els := range m {
		n += len(els)
	}
	return n
}

// OrderedCategories returns the categories present in m: known categories in
// declaration order, then unknown ones alphabetically.
func (m RawMapping) OrderedCategories() []Category {
	cats := make([]Category, 0, len(m))
	for c, els := range m {
		if len(els) > 0 {
			cats = append(cats, c)
		}
	}
	sort.Slice(cats, func(i, j int) bool {
		ri, iok := categoryRank[cats[i]]
		rj, jok := categoryRank[cats[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return cats[i] < cats[j]
		}
	})
	return cats
}

// Analyzer turns source text into a raw category mapping.
//
// On malformed input an analyzer returns whatever partial mapping it could
// build together with a *ParseError; it never panics.
type Analyzer interface {
	Extract(source []byte) (RawMapping, error)
}

// NamedExtractor is implemented by analyzers that can resolve a single
// element by name without building the full structure.
type NamedExtractor interface {
	ExtractNamed(source []byte, name string) (RawElement, bool)
}

package structure

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/mvp-joe/project-outline/internal/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Build:
// - A function before a class with two methods yields two roots, methods in order
// - Explicit children that overrun their parent are clamped to it
// - Missing end lines come from the next sibling, the parent, or end of file
// - An element without an end line only contains elements on its own line
// - Identical ranges produce siblings ordered by category declaration order
// - Colliding paths get ordinal suffixes in source order
// - A scope prefixes the path but not the name, so both locate the element
// - Invalid lines are repaired: start < 1 becomes 1, end < start becomes a point
// - Empty input yields an empty, non-nil root list
// - Randomized inputs always satisfy containment, sibling order and start >= 1
// - Building twice yields identical paths and ranges

func el(cat analyzer.Category, name string, line, end int) analyzer.RawElement {
	return analyzer.RawElement{Name: name, Line: line, EndLine: end, Category: cat}
}

func mapping(els ...analyzer.RawElement) analyzer.RawMapping {
	raw := analyzer.RawMapping{}
	for _, e := range els {
		raw.Add(e)
	}
	return raw
}

// shape renders the tree as "path[start-end]" lines for comparison.
func shape(roots []*Element) []string {
	var out []string
	Walk(roots, func(e *Element) bool {
		out = append(out, fmt.Sprintf("%s[%d-%d]", e.Path, e.StartLine, e.EndLine))
		return true
	})
	return out
}

func TestBuild_FunctionThenClass(t *testing.T) {
	t.Parallel()

	raw := mapping(
		el(analyzer.Class, "Greeter", 4, 10),
		el(analyzer.Method, "hello", 5, 6),
		el(analyzer.Method, "bye", 8, 10),
		el(analyzer.Function, "helper", 1, 2),
	)

	roots := Build(raw, 10)

	require.Len(t, roots, 2)
	assert.Equal(t, "helper", roots[0].Name)
	assert.Equal(t, analyzer.Function, roots[0].Category)
	assert.Equal(t, "Greeter", roots[1].Name)

	children := roots[1].Children
	require.Len(t, children, 2)
	assert.Equal(t, "hello", children[0].Name)
	assert.Equal(t, "bye", children[1].Name)
	assert.Equal(t, "Greeter.hello", children[0].Path)
	assert.Same(t, roots[1], children[0].Parent())
	assert.Nil(t, roots[1].Parent())
	assert.Equal(t, 1, children[0].Depth())
}

func TestBuild_ScopePrefixesPath(t *testing.T) {
	t.Parallel()

	start := el(analyzer.Method, "Start", 5, 7)
	start.Scope = "Server"
	other := el(analyzer.Method, "Start", 9, 11)
	other.Scope = "Client"

	roots := Build(mapping(el(analyzer.Struct, "Server", 1, 3), start, other), 11)

	require.Len(t, roots, 3)
	assert.Equal(t, "Start", roots[1].Name)
	assert.Equal(t, "Server.Start", roots[1].Path)
	assert.Equal(t, "Client.Start", roots[2].Path)

	assert.Len(t, Locate(roots, "Start"), 2)
	byPath := Locate(roots, "Client.Start")
	require.Len(t, byPath, 1)
	assert.Equal(t, 9, byPath[0].StartLine)
}

func TestBuild_ClampsOverrunningChild(t *testing.T) {
	t.Parallel()

	roots := Build(mapping(
		el(analyzer.Class, "A", 1, 5),
		el(analyzer.Function, "B", 3, 8),
		el(analyzer.Function, "C", 9, 9),
	), 9)

	assert.Equal(t, []string{"A[1-5]", "A.B[3-5]", "C[9-9]"}, shape(roots))
}

func TestBuild_BackfillsMissingEnds(t *testing.T) {
	t.Parallel()

	roots := Build(mapping(
		el(analyzer.Key, "a", 1, 0),
		el(analyzer.Key, "b", 2, 0),
		el(analyzer.Key, "c", 5, 0),
	), 8)

	assert.Equal(t, []string{"a[1-1]", "b[2-4]", "c[5-8]"}, shape(roots))
}

func TestBuild_BackfillUsesParentEnd(t *testing.T) {
	t.Parallel()

	roots := Build(mapping(
		el(analyzer.Section, "server", 3, 9),
		el(analyzer.Key, "host", 4, 0),
		el(analyzer.Key, "port", 5, 0),
		el(analyzer.Key, "after", 12, 0),
	), 20)

	assert.Equal(t, []string{
		"server[3-9]",
		"server.host[4-4]",
		"server.port[5-9]",
		"after[12-20]",
	}, shape(roots))
}

func TestBuild_OpenElementOnlyContainsItsOwnLine(t *testing.T) {
	t.Parallel()

	roots := Build(mapping(
		el(analyzer.Class, "Shape", 1, 0),
		el(analyzer.Method, "area", 2, 4),
		el(analyzer.Function, "main", 6, 7),
	), 7)

	assert.Equal(t, []string{"Shape[1-1]", "area[2-4]", "main[6-7]"}, shape(roots))
}

func TestBuild_OpenElementGrowsOverSameLineChild(t *testing.T) {
	t.Parallel()

	roots := Build(mapping(
		el(analyzer.Class, "Outer", 3, 0),
		el(analyzer.Function, "inner", 3, 6),
		el(analyzer.Function, "next", 8, 9),
	), 9)

	assert.Equal(t, []string{"Outer[3-7]", "Outer.inner[3-6]", "next[8-9]"}, shape(roots))
}

func TestBuild_IdenticalRangesAreSiblings(t *testing.T) {
	t.Parallel()

	roots := Build(mapping(
		el(analyzer.Attribute, "route", 3, 3),
		el(analyzer.Function, "handler", 3, 3),
	), 3)

	require.Len(t, roots, 2)
	assert.Equal(t, "handler", roots[0].Name, "function is declared before attribute")
	assert.Equal(t, "route", roots[1].Name)
	assert.Empty(t, roots[0].Children)
}

func TestBuild_PathCollisions(t *testing.T) {
	t.Parallel()

	roots := Build(mapping(
		el(analyzer.Class, "C", 1, 10),
		el(analyzer.Method, "get", 2, 3),
		el(analyzer.Method, "get", 5, 6),
		el(analyzer.Section, "plugins", 11, 12),
		el(analyzer.Section, "plugins", 13, 14),
		el(analyzer.Key, "name", 14, 14),
	), 14)

	assert.Equal(t, []string{
		"C[1-10]",
		"C.get[2-3]",
		"C.get#2[5-6]",
		"plugins[11-12]",
		"plugins#2[13-14]",
		"plugins#2.name[14-14]",
	}, shape(roots))
	assert.Equal(t, "get", roots[0].Children[1].Name)
}

func TestBuild_RepairsInvalidLines(t *testing.T) {
	t.Parallel()

	roots := Build(mapping(
		el(analyzer.Import, "os", 0, 0),
		el(analyzer.Function, "f", 5, 2),
		analyzer.RawElement{Name: "", Line: 3, Category: analyzer.Function},
	), 0)

	assert.Equal(t, []string{"os[1-4]", "f[5-5]"}, shape(roots))
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	roots := Build(analyzer.RawMapping{}, 10)
	require.NotNil(t, roots)
	assert.Empty(t, roots)

	roots = Build(nil, 0)
	require.NotNil(t, roots)
	assert.Empty(t, roots)
}

func TestBuild_KeepsDecorators(t *testing.T) {
	t.Parallel()

	roots := Build(mapping(analyzer.RawElement{
		Name:       "create",
		Line:       4,
		EndLine:    6,
		Decorators: []string{"@staticmethod"},
		Category:   analyzer.StaticMethod,
	}), 6)

	require.Len(t, roots, 1)
	assert.Equal(t, []string{"@staticmethod"}, roots[0].Decorators)
}

func randomMapping(r *rand.Rand, n, lines int) analyzer.RawMapping {
	raw := analyzer.RawMapping{}
	for i := 0; i < n; i++ {
		start := r.Intn(lines) + 1
		end := 0
		if r.Intn(4) > 0 {
			end = start + r.Intn(lines-start+1)
		}
		cat := analyzer.Categories[r.Intn(len(analyzer.Categories))]
		raw.Add(el(cat, fmt.Sprintf("e%d", r.Intn(n/2+1)), start, end))
	}
	return raw
}

func checkInvariants(t *testing.T, siblings []*Element, parent *Element, seen map[string]bool) {
	t.Helper()
	for i, e := range siblings {
		assert.GreaterOrEqual(t, e.StartLine, 1)
		assert.GreaterOrEqual(t, e.EndLine, e.StartLine, e.Path)
		assert.False(t, seen[e.Path], "duplicate path %s", e.Path)
		seen[e.Path] = true

		if parent != nil {
			assert.GreaterOrEqual(t, e.StartLine, parent.StartLine, e.Path)
			assert.LessOrEqual(t, e.EndLine, parent.EndLine, e.Path)
			assert.Same(t, parent, e.Parent())
		}
		if i > 0 {
			prev := siblings[i-1]
			assert.True(t, prev.EndLine < e.StartLine || prev.StartLine == e.StartLine,
				"siblings overlap: %s[%d-%d] %s[%d-%d]", prev.Path, prev.StartLine, prev.EndLine, e.Path, e.StartLine, e.EndLine)
		}
		checkInvariants(t, e.Children, e, seen)
	}
}

func TestBuild_RandomInvariants(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		raw := randomMapping(r, 1+r.Intn(30), 40)

		roots := Build(raw, 40)
		checkInvariants(t, roots, nil, map[string]bool{})
		assert.Equal(t, raw.Len(), Count(roots))

		again := Build(raw, 40)
		assert.Equal(t, shape(roots), shape(again))
	}
}

package treesitter

import (
	"errors"
	"testing"

	"github.com/mvp-joe/project-outline/internal/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Grammar Adapter:
// - LoadGrammar returns the same grammar instance on repeated calls
// - LoadGrammar fails with ErrGrammarUnavailable for unknown languages
// - Parse of valid source returns a tree without error
// - Parse of malformed source returns a partial tree plus a ParseError with a line
// - Span converts 0-indexed rows into 1-indexed lines
// - Span attributes an end at column 0 of a later row to the previous line

func TestLoadGrammar_Cached(t *testing.T) {
	t.Parallel()

	first, err := LoadGrammar("python")
	require.NoError(t, err)
	second, err := LoadGrammar("python")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "python", first.Name())
}

func TestLoadGrammar_Unknown(t *testing.T) {
	t.Parallel()

	g, err := LoadGrammar("cobol")
	assert.Nil(t, g)
	assert.True(t, errors.Is(err, analyzer.ErrGrammarUnavailable))
}

func TestAvailableGrammars(t *testing.T) {
	t.Parallel()

	names := AvailableGrammars()
	assert.Contains(t, names, "python")
	assert.Contains(t, names, "typescript")
	assert.IsIncreasing(t, names)
}

func TestGrammarParse_Valid(t *testing.T) {
	t.Parallel()

	g, err := LoadGrammar("python")
	require.NoError(t, err)

	tree, err := g.Parse([]byte("def f():\n    pass\n"))
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	assert.Equal(t, "module", tree.Root().Kind())
}

func TestGrammarParse_Malformed(t *testing.T) {
	t.Parallel()

	g, err := LoadGrammar("python")
	require.NoError(t, err)

	tree, err := g.Parse([]byte("x = 1\ndef broken(:\n    pass\n"))
	require.NotNil(t, tree, "partial tree is still returned")
	defer tree.Close()

	require.Error(t, err)
	assert.True(t, errors.Is(err, analyzer.ErrParse))

	var perr *analyzer.ParseError
	require.True(t, errors.As(err, &perr))
	assert.GreaterOrEqual(t, perr.Line, 1)
	assert.Equal(t, "python", perr.Format)
}

func TestSpan_OneIndexed(t *testing.T) {
	t.Parallel()

	g, err := LoadGrammar("python")
	require.NoError(t, err)

	tree, err := g.Parse([]byte("def f():\n    pass\n"))
	require.NoError(t, err)
	defer tree.Close()

	fn := tree.Root().NamedChild(0)
	require.Equal(t, "function_definition", fn.Kind())

	start, end := Span(fn)
	assert.Equal(t, 1, start)
	assert.Equal(t, 2, end)
}

func TestSpan_EndAtColumnZero(t *testing.T) {
	t.Parallel()

	g, err := LoadGrammar("python")
	require.NoError(t, err)

	// The module node ends at row 2, column 0, after the trailing newline.
	tree, err := g.Parse([]byte("def f():\n    pass\n"))
	require.NoError(t, err)
	defer tree.Close()

	start, end := Span(tree.Root())
	assert.Equal(t, 1, start)
	assert.Equal(t, 2, end)
}

package custom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for line location:
// - A line starting with the name beats one merely containing it
// - A whole-token match beats a substring match
// - LocateOrDefault widens to the whole file, then falls back to line 1
// - keyLocator prefers an assignment over a first-token match and skips
//   comment lines
// - lineOffsets maps offsets on either side of a newline correctly

func TestFindLine_Precedence(t *testing.T) {
	t.Parallel()

	lines := []string{
		"# mentions portal here",
		"x = port",
		"port = 80",
	}

	assert.Equal(t, 3, FindLine(lines, "port", 1, 3))
	assert.Equal(t, 2, FindLine(lines, "port", 1, 2))
	assert.Equal(t, 1, FindLine(lines, "port", 1, 1))
	assert.Equal(t, 0, FindLine(lines, "missing", 1, 3))
	assert.Equal(t, 0, FindLine(lines, "", 1, 3))
}

func TestLocateOrDefault(t *testing.T) {
	t.Parallel()

	lines := []string{"a = 1", "b = 2", "c = 3"}

	assert.Equal(t, 3, LocateOrDefault(lines, "c", 3, 3))
	assert.Equal(t, 1, LocateOrDefault(lines, "a", 2, 3), "widens to the whole file")
	assert.Equal(t, UnresolvedLine, LocateOrDefault(lines, "zzz", 1, 3))
	assert.Equal(t, UnresolvedLine, LocateOrDefault(nil, "a", 1, 1))
}

func TestLineOffsets(t *testing.T) {
	t.Parallel()

	src := []byte("ab\ncd\n\nef")
	lo := newLineOffsets(src)

	assert.Equal(t, 1, lo.lineAt(0))
	assert.Equal(t, 1, lo.lineAt(2), "the newline belongs to its own line")
	assert.Equal(t, 2, lo.lineAt(3))
	assert.Equal(t, 3, lo.lineAt(6))
	assert.Equal(t, 4, lo.lineAt(7))
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Nil(t, splitLines(nil))
	assert.Equal(t, []string{"a", "b"}, splitLines([]byte("a\r\nb\n")))
	assert.Equal(t, []string{"a", "", "b"}, splitLines([]byte("a\n\nb")))
}

func TestKeyLocator_AssignmentWins(t *testing.T) {
	t.Parallel()

	lines := []string{
		"; port of the proxy",
		"port",
		"port = 80",
	}

	assert.Equal(t, 3, iniLocator.find(lines, "port", 1, 3))
	assert.Equal(t, 2, iniLocator.find(lines, "port", 1, 2), "bare first token when nothing assigns")
	assert.Equal(t, 0, iniLocator.find(lines, "port", 1, 1), "comments never match")
	assert.Equal(t, UnresolvedLine, iniLocator.locate(lines, "missing", 1, 3))
}

func TestKeyLocator_Header(t *testing.T) {
	t.Parallel()

	lines := []string{"# [main] is below", "[ main ]", "x = 1"}

	assert.Equal(t, 2, iniLocator.header(lines, "main", 1))
	assert.Equal(t, 0, iniLocator.header(lines, "main", 3))
}

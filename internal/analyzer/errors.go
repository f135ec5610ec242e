package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrGrammarUnavailable indicates the grammar for a language is not compiled in
	// or could not be loaded.
	ErrGrammarUnavailable = errors.New("grammar unavailable")

	// ErrParse indicates malformed source for a format or grammar.
	ErrParse = errors.New("parse error")
)

// ParseError reports malformed input. Line is 1-indexed, or 0 when unknown.
type ParseError struct {
	Format  string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s parse error at line %d: %s", e.Format, e.Line, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Is makes errors.Is(err, ErrParse) match any *ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

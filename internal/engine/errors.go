package engine

import "errors"

var (
	// ErrTooLarge indicates a file exceeds the configured byte or line limit.
	ErrTooLarge = errors.New("file too large")

	// ErrNotAFile indicates the path names a directory or other non-regular file.
	ErrNotAFile = errors.New("not a regular file")

	// ErrAnalyzerFailed indicates an analyzer panicked.
	ErrAnalyzerFailed = errors.New("analyzer failed")

	// ErrExtractUnsupported indicates the descriptor does not allow extraction.
	ErrExtractUnsupported = errors.New("extraction not supported")
)

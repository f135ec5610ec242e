// Package watcher reports debounced batches of changed files under a set of
// directories.
package watcher

import "context"

// FileWatcher delivers sorted batches of changed paths.
type FileWatcher interface {
	// Start runs the watch loop until ctx ends or Stop is called.
	Start(ctx context.Context, onChange func(files []string)) error

	Stop() error

	// Pause holds batches back while changes keep accumulating.
	Pause()

	// Resume delivers the accumulated batch, if any, and re-enables delivery.
	Resume()
}

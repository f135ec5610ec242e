package engine

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/mvp-joe/project-outline/internal/watcher"
)

// Watch reports fresh results for supported files under root as they change,
// until ctx is cancelled. Cached results of changed files are dropped first.
// Deleted files are reported with Removed set.
func (e *Engine) Watch(ctx context.Context, root string, opts Options, fn func(*FileResult)) error {
	d, err := NewDiscovery(root, e.registry, e.cfg.Scan.Include, e.cfg.Scan.Ignore)
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher([]string{root}, watcher.Options{
		Debounce: time.Duration(e.cfg.Watch.DebounceMillis) * time.Millisecond,
		Match:    d.Match,
		SkipDir:  d.SkipDir,
	})
	if err != nil {
		return err
	}
	defer fw.Stop()

	err = fw.Start(ctx, func(files []string) {
		for _, file := range files {
			e.Invalidate(file)
			fn(e.refresh(ctx, file, opts))
		}
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

// refresh re-analyzes one changed file.
func (e *Engine) refresh(ctx context.Context, path string, opts Options) *FileResult {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		result := failedResult(path, err)
		result.Error, result.Err = "", nil
		result.Removed = true
		if desc, err := e.registry.Resolve(path); err == nil {
			result.Descriptor = desc.Name
		}
		return result
	}

	result, err := e.Analyze(ctx, path, opts)
	if err != nil {
		if e.verbose {
			log.Printf("Warning: %s: %v", path, err)
		}
		return failedResult(path, err)
	}
	return result
}

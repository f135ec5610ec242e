package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/project-outline/internal/structure"
)

// ScanSummary describes one directory scan.
type ScanSummary struct {
	RunID     string        `json:"run_id"`
	Root      string        `json:"root"`
	Files     int           `json:"files"`
	Succeeded int           `json:"succeeded"`
	Degraded  int           `json:"degraded"` // analyzer reported an error
	Failed    int           `json:"failed"`   // file could not be served
	Elements  int           `json:"elements"`
	Duration  time.Duration `json:"duration"`
}

// Discover lists the supported files under root using the scan globs.
func (e *Engine) Discover(root string) ([]string, error) {
	d, err := NewDiscovery(root, e.registry, e.cfg.Scan.Include, e.cfg.Scan.Ignore)
	if err != nil {
		return nil, err
	}
	return d.Discover()
}

// Scan analyzes every supported file under root. See ScanFiles.
func (e *Engine) Scan(ctx context.Context, root string, opts Options, fn func(*FileResult)) (*ScanSummary, error) {
	files, err := e.Discover(root)
	if err != nil {
		return nil, err
	}
	return e.ScanFiles(ctx, root, files, opts, fn)
}

// ScanFiles analyzes files in parallel, bounded by the configured worker
// count. Per-file failures become results with Error set; only cancellation
// stops the scan. fn is never called concurrently.
func (e *Engine) ScanFiles(ctx context.Context, root string, files []string, opts Options, fn func(*FileResult)) (*ScanSummary, error) {
	start := time.Now()
	summary := &ScanSummary{
		RunID: uuid.New().String(),
		Root:  root,
		Files: len(files),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if e.cfg.Scan.Workers > 0 {
		g.SetLimit(e.cfg.Scan.Workers)
	}

	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := e.Analyze(gctx, file, opts)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				result = failedResult(file, err)
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case result.Err != nil && result.Descriptor == "":
				summary.Failed++
			case result.Err != nil:
				summary.Degraded++
			default:
				summary.Succeeded++
			}
			summary.Elements += structure.Count(result.Elements)
			if fn != nil {
				fn(result)
			}
			return nil
		})
	}

	err := g.Wait()
	summary.Duration = time.Since(start)
	return summary, err
}

// failedResult records a request error as a scan result.
func failedResult(path string, err error) *FileResult {
	return &FileResult{
		Path:       path,
		Elements:   []*structure.Element{},
		NextLevels: []int{},
		Error:      err.Error(),
		Err:        err,
	}
}

package engine

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/project-outline/internal/config"
)

// resultCache memoises Analyze results. A nil cache is valid and caches nothing.
type resultCache struct {
	results otter.Cache[string, *FileResult]
}

func newResultCache(cfg config.CacheConfig) (*resultCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", cfg.Capacity)
	}

	builder := otter.MustBuilder[string, *FileResult](cfg.Capacity)
	var (
		results otter.Cache[string, *FileResult]
		err     error
	)
	if cfg.TTLSeconds > 0 {
		results, err = builder.WithTTL(time.Duration(cfg.TTLSeconds) * time.Second).Build()
	} else {
		results, err = builder.Build()
	}
	if err != nil {
		return nil, err
	}
	return &resultCache{results: results}, nil
}

// newCacheKey identifies a result by file identity and request. A changed
// mtime or size yields a new key, so stale entries are never served.
func newCacheKey(abs string, level int, opts Options, info os.FileInfo) string {
	return fmt.Sprintf("%s|%d|%d|%d|%d|%d", abs, level, opts.Offset, opts.Limit, info.ModTime().UnixNano(), info.Size())
}

func (c *resultCache) get(key string) (*FileResult, bool) {
	if c == nil {
		return nil, false
	}
	return c.results.Get(key)
}

func (c *resultCache) set(key string, result *FileResult) {
	if c == nil {
		return
	}
	c.results.Set(key, result)
}

// invalidate drops every entry of one file.
func (c *resultCache) invalidate(abs string) {
	if c == nil {
		return
	}
	prefix := abs + "|"
	c.results.DeleteByFunc(func(key string, _ *FileResult) bool {
		return strings.HasPrefix(key, prefix)
	})
}

func (c *resultCache) size() int {
	if c == nil {
		return 0
	}
	return c.results.Size()
}

func (c *resultCache) close() {
	if c == nil {
		return
	}
	c.results.Close()
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	ErrInvalidLimits        = errors.New("invalid limits")
	ErrInvalidWorkers       = errors.New("invalid worker count")
	ErrInvalidPattern       = errors.New("invalid glob pattern")
	ErrInvalidCacheSettings = errors.New("invalid cache settings")
	ErrInvalidLevels        = errors.New("invalid level settings")
	ErrInvalidWatch         = errors.New("invalid watch settings")
)

// ValidationErrors holds every problem found in a Config. errors.Is matches
// any of them.
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	if len(v) == 1 {
		return v[0].Error()
	}
	msgs := make([]string, len(v))
	for i, err := range v {
		msgs[i] = err.Error()
	}
	return "validation failed:\n  - " + strings.Join(msgs, "\n  - ")
}

func (v ValidationErrors) Unwrap() []error { return v }

// Validate checks every section of cfg and reports all problems at once.
func Validate(cfg *Config) error {
	var errs ValidationErrors
	positive := func(kind error, field string, n int64) {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %d", kind, field, n))
		}
	}

	positive(ErrInvalidLimits, "max_file_bytes", cfg.Limits.MaxFileBytes)
	positive(ErrInvalidLimits, "max_lines", int64(cfg.Limits.MaxLines))
	positive(ErrInvalidWorkers, "workers", int64(cfg.Scan.Workers))

	for _, pattern := range append(append([]string{}, cfg.Scan.Include...), cfg.Scan.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	if cfg.Cache.Enabled {
		positive(ErrInvalidCacheSettings, "capacity", int64(cfg.Cache.Capacity))
		positive(ErrInvalidCacheSettings, "ttl_seconds", int64(cfg.Cache.TTLSeconds))
	}

	positive(ErrInvalidLevels, "preview_lines", int64(cfg.Levels.PreviewLines))
	positive(ErrInvalidLevels, "page_size", int64(cfg.Levels.PageSize))

	if cfg.Watch.DebounceMillis < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidWatch, cfg.Watch.DebounceMillis))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

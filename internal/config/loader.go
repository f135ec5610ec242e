package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader produces a validated Config.
type Loader interface {
	// Load merges defaults, the config file and OUTLINE_* environment
	// variables, in increasing order of precedence.
	Load() (*Config, error)
}

type loader struct {
	rootDir  string
	explicit string
}

// NewLoader looks for .outline/config.yml (or .yaml) under rootDir. A missing
// file is not an error.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader reads path, which must exist.
func NewFileLoader(path string) Loader {
	return &loader{explicit: path}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()

	switch {
	case l.explicit != "":
		v.SetConfigFile(l.explicit)
	default:
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".outline"))
	}

	v.SetEnvPrefix("OUTLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key gets a default so Unmarshal picks up env overrides for it.
	for key, value := range defaultValues(Default()) {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Descriptors != "" && l.rootDir != "" && !filepath.IsAbs(cfg.Descriptors) {
		cfg.Descriptors = filepath.Join(l.rootDir, cfg.Descriptors)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaultValues(d *Config) map[string]any {
	return map[string]any{
		"limits.max_file_bytes": d.Limits.MaxFileBytes,
		"limits.max_lines":      d.Limits.MaxLines,
		"scan.include":          d.Scan.Include,
		"scan.ignore":           d.Scan.Ignore,
		"scan.workers":          d.Scan.Workers,
		"cache.enabled":         d.Cache.Enabled,
		"cache.capacity":        d.Cache.Capacity,
		"cache.ttl_seconds":     d.Cache.TTLSeconds,
		"levels.preview_lines":  d.Levels.PreviewLines,
		"levels.page_size":      d.Levels.PageSize,
		"watch.debounce_ms":     d.Watch.DebounceMillis,
		"descriptors":           d.Descriptors,
	}
}

// LoadConfig loads configuration rooted at the working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// Package config loads outline settings.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (OUTLINE_*)
//  2. Project config (.outline/config.yml or .outline/config.yaml), or the
//     file passed with --config
//  3. Built-in defaults
//
// Nested fields map to underscores: limits.max_lines is OUTLINE_LIMITS_MAX_LINES.
package config

import "runtime"

// Config represents the complete outline configuration.
type Config struct {
	Limits      LimitsConfig `yaml:"limits" mapstructure:"limits"`
	Scan        ScanConfig   `yaml:"scan" mapstructure:"scan"`
	Cache       CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Levels      LevelsConfig `yaml:"levels" mapstructure:"levels"`
	Watch       WatchConfig  `yaml:"watch" mapstructure:"watch"`
	Descriptors string       `yaml:"descriptors" mapstructure:"descriptors"` // extra descriptor YAML file
}

// LimitsConfig guards the analyzers against oversized input. Files beyond
// either limit are rejected before any parsing.
type LimitsConfig struct {
	MaxFileBytes int64 `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`
	MaxLines     int   `yaml:"max_lines" mapstructure:"max_lines"`
}

// ScanConfig controls directory scans.
type ScanConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns relative to the scan root
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
	Workers int      `yaml:"workers" mapstructure:"workers"` // files analyzed in parallel
}

// CacheConfig configures the in-memory result cache.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled" mapstructure:"enabled"`
	Capacity   int  `yaml:"capacity" mapstructure:"capacity"`       // max cached results
	TTLSeconds int  `yaml:"ttl_seconds" mapstructure:"ttl_seconds"` // entry lifetime
}

// LevelsConfig tunes the built-in level handlers.
type LevelsConfig struct {
	PreviewLines int `yaml:"preview_lines" mapstructure:"preview_lines"` // lines per element at level 2
	PageSize     int `yaml:"page_size" mapstructure:"page_size"`         // default page at level 3
}

// WatchConfig configures change watching.
type WatchConfig struct {
	DebounceMillis int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxFileBytes: 10 << 20,
			MaxLines:     200000,
		},
		Scan: ScanConfig{
			Include: []string{"**"},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				".outline/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.min.js",
			},
			Workers: runtime.NumCPU(),
		},
		Cache: CacheConfig{
			Enabled:    true,
			Capacity:   1024,
			TTLSeconds: 600,
		},
		Levels: LevelsConfig{
			PreviewLines: 5,
			PageSize:     500,
		},
		Watch: WatchConfig{
			DebounceMillis: 500,
		},
	}
}

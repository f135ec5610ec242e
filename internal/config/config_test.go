package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - Load() uses defaults when no config file exists
// - Load() reads .outline/config.yml and .outline/config.yaml
// - Load() merges a partial config file with defaults
// - Environment variables override config file values and defaults
// - NewFileLoader() reads an explicit file and fails when it is missing
// - A relative descriptors path resolves against the project root
// - Load() returns errors for malformed YAML and invalid values
// - Validate() rejects non-positive limits, workers, cache and level settings
// - Validate() rejects glob patterns that do not compile
// - Validate() reports every invalid field at once

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	outlineDir := filepath.Join(dir, ".outline")
	require.NoError(t, os.MkdirAll(outlineDir, 0755))
	path := filepath.Join(outlineDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, int64(10<<20), cfg.Limits.MaxFileBytes)
	assert.Equal(t, 200000, cfg.Limits.MaxLines)
	assert.Equal(t, []string{"**"}, cfg.Scan.Include)
	assert.Contains(t, cfg.Scan.Ignore, ".git/**")
	assert.Equal(t, runtime.NumCPU(), cfg.Scan.Workers)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5, cfg.Levels.PreviewLines)
	assert.Equal(t, 500, cfg.Levels.PageSize)
	assert.Equal(t, 500, cfg.Watch.DebounceMillis)
	assert.Empty(t, cfg.Descriptors)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	expected := Default()
	assert.Equal(t, expected.Limits, cfg.Limits)
	assert.Equal(t, expected.Scan.Ignore, cfg.Scan.Ignore)
	assert.Equal(t, expected.Levels, cfg.Levels)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", `
limits:
  max_file_bytes: 2048
  max_lines: 100
scan:
  include: ["src/**"]
  ignore: ["src/gen/**"]
  workers: 2
cache:
  enabled: false
levels:
  preview_lines: 3
  page_size: 50
`)

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, int64(2048), cfg.Limits.MaxFileBytes)
	assert.Equal(t, 100, cfg.Limits.MaxLines)
	assert.Equal(t, []string{"src/**"}, cfg.Scan.Include)
	assert.Equal(t, []string{"src/gen/**"}, cfg.Scan.Ignore)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 3, cfg.Levels.PreviewLines)
	assert.Equal(t, 50, cfg.Levels.PageSize)
}

func TestLoadConfig_LoadsFromConfigYamlAndMergesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "levels:\n  preview_lines: 8\n")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Levels.PreviewLines)
	assert.Equal(t, 500, cfg.Levels.PageSize)
	assert.Equal(t, 200000, cfg.Limits.MaxLines)
}

func TestLoadConfig_EnvironmentVariablesOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", "limits:\n  max_lines: 100\n")

	t.Setenv("OUTLINE_LIMITS_MAX_LINES", "42")
	t.Setenv("OUTLINE_LEVELS_PAGE_SIZE", "7")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.Limits.MaxLines, "env wins over file")
	assert.Equal(t, 7, cfg.Levels.PageSize, "env wins over defaults")
}

func TestNewFileLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  workers: 3\n"), 0644))

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scan.Workers)

	_, err = NewFileLoader(filepath.Join(dir, "missing.yaml")).Load()
	require.Error(t, err)
}

func TestLoadConfig_ResolvesDescriptorsPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", "descriptors: .outline/types.yaml\n")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".outline", "types.yaml"), cfg.Descriptors)
}

func TestLoadConfig_ReturnsErrorForMalformedYaml(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", "limits:\n  max_lines: [unclosed\n")

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_ReturnsErrorForInvalidValues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", "scan:\n  workers: 0\n")

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWorkers))
}

func TestValidate_RejectsInvalidFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero max bytes", func(c *Config) { c.Limits.MaxFileBytes = 0 }, ErrInvalidLimits},
		{"negative max lines", func(c *Config) { c.Limits.MaxLines = -1 }, ErrInvalidLimits},
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }, ErrInvalidWorkers},
		{"bad include", func(c *Config) { c.Scan.Include = []string{"[abc"} }, ErrInvalidPattern},
		{"bad ignore", func(c *Config) { c.Scan.Ignore = []string{"{a,b"} }, ErrInvalidPattern},
		{"zero capacity", func(c *Config) { c.Cache.Capacity = 0 }, ErrInvalidCacheSettings},
		{"zero ttl", func(c *Config) { c.Cache.TTLSeconds = 0 }, ErrInvalidCacheSettings},
		{"zero preview", func(c *Config) { c.Levels.PreviewLines = 0 }, ErrInvalidLevels},
		{"zero page", func(c *Config) { c.Levels.PageSize = 0 }, ErrInvalidLevels},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMillis = -5 }, ErrInvalidWatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestValidate_DisabledCacheSkipsCacheChecks(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Cache.Enabled = false
	cfg.Cache.Capacity = 0

	assert.NoError(t, Validate(cfg))
}

func TestValidate_ReturnsMultipleErrorsForMultipleInvalidFields(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Limits.MaxLines = 0
	cfg.Scan.Workers = -1
	cfg.Levels.PageSize = 0

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "max_lines")
	assert.Contains(t, err.Error(), "worker count")
	assert.Contains(t, err.Error(), "page_size")
	assert.ErrorIs(t, err, ErrInvalidWorkers)
	assert.ErrorIs(t, err, ErrInvalidLevels)
}

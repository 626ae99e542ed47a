// Package config provides configuration types, defaults and TOML loading for avmeta.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Default constants
const (
	// DefaultFFprobePath is the ffprobe executable looked up on PATH.
	DefaultFFprobePath = "ffprobe"

	// DefaultTimeoutSecs bounds a single ffprobe run.
	DefaultTimeoutSecs = 30

	// DefaultWorkers is the number of files probed concurrently by scan.
	DefaultWorkers = 4

	// MaxWorkers caps scan concurrency.
	MaxWorkers = 64

	// MaxTimeoutSecs caps the per-file ffprobe timeout.
	MaxTimeoutSecs = 3600

	// DefaultConfigFile is the config location under the user's home.
	DefaultConfigFile = "~/.config/avmeta/config.toml"
)

// OutputFormat selects how snapshots are printed.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// ParseOutputFormat parses a string into an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: '%s', valid options: table, json", ErrInvalidFormat, s)
	}
}

// String returns the string representation of the format.
func (f OutputFormat) String() string {
	return string(f)
}

// FFprobe configures the probe binary.
type FFprobe struct {
	Path           string `toml:"path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Cache configures the snapshot cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Scan configures directory scans.
type Scan struct {
	Workers   int  `toml:"workers"`
	Recursive bool `toml:"recursive"`
}

// Logging configures the run log file.
type Logging struct {
	Dir     string `toml:"dir"`
	Verbose bool   `toml:"verbose"`
	Enabled bool   `toml:"enabled"`
}

// Output configures how results are printed.
type Output struct {
	Format  string `toml:"format"`
	Compact bool   `toml:"compact"`
}

// Config holds all avmeta configuration.
type Config struct {
	FFprobe FFprobe `toml:"ffprobe"`
	Cache   Cache   `toml:"cache"`
	Scan    Scan    `toml:"scan"`
	Logging Logging `toml:"logging"`
	Output  Output  `toml:"output"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		FFprobe: FFprobe{
			Path:           DefaultFFprobePath,
			TimeoutSeconds: DefaultTimeoutSecs,
		},
		Cache: Cache{
			Enabled: true,
			Dir:     defaultCacheDir(),
		},
		Scan: Scan{
			Workers:   DefaultWorkers,
			Recursive: false,
		},
		Logging: Logging{
			Dir:     defaultLogDir(),
			Verbose: false,
			Enabled: true,
		},
		Output: Output{
			Format:  string(FormatTable),
			Compact: false,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.FFprobe.Path) == "" {
		return fmt.Errorf("%w: ffprobe.path must be set", ErrInvalidFFprobe)
	}
	if c.FFprobe.TimeoutSeconds < 1 || c.FFprobe.TimeoutSeconds > MaxTimeoutSecs {
		return fmt.Errorf("%w: ffprobe.timeout_seconds must be 1-%d, got %d", ErrInvalidTimeout, MaxTimeoutSecs, c.FFprobe.TimeoutSeconds)
	}
	if c.Scan.Workers < 1 || c.Scan.Workers > MaxWorkers {
		return fmt.Errorf("%w: scan.workers must be 1-%d, got %d", ErrInvalidWorkers, MaxWorkers, c.Scan.Workers)
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Dir) == "" {
		return fmt.Errorf("%w: cache.dir must be set when the cache is enabled", ErrInvalidCache)
	}
	if _, err := ParseOutputFormat(c.Output.Format); err != nil {
		return err
	}
	return nil
}

// Timeout returns the per-file ffprobe timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.FFprobe.TimeoutSeconds) * time.Second
}

// OutputFormat returns the parsed output format, falling back to table.
func (c *Config) OutputFormat() OutputFormat {
	f, err := ParseOutputFormat(c.Output.Format)
	if err != nil {
		return FormatTable
	}
	return f
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(DefaultConfigFile)
}

// Load locates, parses, and validates a configuration file. A missing file
// yields the defaults. The returned path is where the config was or would
// be read from.
func Load(path string) (*Config, string, bool, error) {
	cfg := NewConfig()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return cfg, resolvedPath, exists, nil
}

func (c *Config) normalize() error {
	c.FFprobe.Path = strings.TrimSpace(c.FFprobe.Path)
	if strings.ContainsRune(c.FFprobe.Path, filepath.Separator) || strings.HasPrefix(c.FFprobe.Path, "~") {
		p, err := expandPath(c.FFprobe.Path)
		if err != nil {
			return err
		}
		c.FFprobe.Path = p
	}

	var err error
	if c.Cache.Dir, err = expandPath(strings.TrimSpace(c.Cache.Dir)); err != nil {
		return err
	}
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return err
	}
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "avmeta")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/avmeta"
	}
	return filepath.Join(home, ".cache", "avmeta")
}

func defaultLogDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "avmeta", "logs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/state/avmeta/logs"
	}
	return filepath.Join(home, ".local", "state", "avmeta", "logs")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

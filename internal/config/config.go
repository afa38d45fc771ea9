// Package config loads and validates the framebind YAML configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Bounds describes a rectangle in the configuration file.
type Bounds struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FrameConfig controls how spawned frames present themselves.
type FrameConfig struct {
	// Class is the WM_CLASS class name set on every frame.
	Class string `yaml:"class"`
	// TitlePrefix is prepended to the hosted window's title.
	TitlePrefix string `yaml:"title_prefix"`
	// DefaultBounds is used when a host application opens a window without
	// requesting geometry.
	DefaultBounds Bounds `yaml:"default_bounds"`
}

// ReconcileConfig controls the drift-correction loop.
type ReconcileConfig struct {
	IntervalSeconds int  `yaml:"interval_seconds"`
	CleanupOrphaned bool `yaml:"cleanup_orphaned"`
}

// DirectoryConfig controls the address-book lookup service.
type DirectoryConfig struct {
	// Database is the SQLite file backing the directory. Empty disables the
	// lookup service.
	Database string `yaml:"database"`
	// Limit caps results per lookup when the caller does not set one.
	Limit int `yaml:"limit"`
}

// Config is the daemon configuration.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Frame     FrameConfig     `yaml:"frame"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Directory DirectoryConfig `yaml:"directory"`
}

// DefaultConfigPath returns the standard configuration file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "framebind", "config.yaml"), nil
}

// DefaultDatabasePath returns the standard directory database location.
func DefaultDatabasePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "framebind", "directory.db"), nil
}

// DefaultConfig returns the built-in defaults used when no file exists.
func DefaultConfig() *Config {
	dbPath, err := DefaultDatabasePath()
	if err != nil {
		dbPath = ""
	}
	return &Config{
		LogLevel: "info",
		Frame: FrameConfig{
			Class:         "Framebind",
			DefaultBounds: Bounds{Width: 800, Height: 600},
		},
		Reconcile: ReconcileConfig{
			IntervalSeconds: 10,
			CleanupOrphaned: true,
		},
		Directory: DirectoryConfig{
			Database: dbPath,
			Limit:    25,
		},
	}
}

// Load reads the configuration from the standard location. A missing file is
// not an error; defaults apply.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from path, layering the file's values
// over the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (want debug, info, warn, or error)", c.LogLevel)
	}

	if c.Frame.Class == "" {
		return fmt.Errorf("frame.class must not be empty")
	}
	if c.Frame.DefaultBounds.Width <= 0 || c.Frame.DefaultBounds.Height <= 0 {
		return fmt.Errorf("frame.default_bounds must have positive width and height")
	}
	if c.Reconcile.IntervalSeconds <= 0 {
		return fmt.Errorf("reconcile.interval_seconds must be positive")
	}
	if c.Directory.Limit <= 0 {
		return fmt.Errorf("directory.limit must be positive")
	}
	return nil
}

// SlogLevel maps the configured log level onto slog's levels.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Print renders the effective configuration as YAML.
func (c *Config) Print() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(data), nil
}

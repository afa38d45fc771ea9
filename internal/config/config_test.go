package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Frame.Class == "" {
		t.Fatalf("expected a default frame class")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Reconcile.IntervalSeconds != 10 {
		t.Fatalf("expected default reconcile interval 10, got %d", cfg.Reconcile.IntervalSeconds)
	}
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := strings.Join([]string{
		"log_level: debug",
		"frame:",
		"  class: Scratchpad",
		"  title_prefix: '[fb] '",
		"  default_bounds: {width: 1024, height: 768}",
		"reconcile:",
		"  interval_seconds: 3",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Frame.Class != "Scratchpad" {
		t.Fatalf("expected frame class override, got %q", cfg.Frame.Class)
	}
	if cfg.Frame.TitlePrefix != "[fb] " {
		t.Fatalf("expected title prefix override, got %q", cfg.Frame.TitlePrefix)
	}
	if cfg.Frame.DefaultBounds.Width != 1024 {
		t.Fatalf("expected default bounds override, got %+v", cfg.Frame.DefaultBounds)
	}
	if cfg.Reconcile.IntervalSeconds != 3 {
		t.Fatalf("expected reconcile interval 3, got %d", cfg.Reconcile.IntervalSeconds)
	}
	// Untouched sections keep their defaults.
	if cfg.Directory.Limit != 25 {
		t.Fatalf("expected default directory limit, got %d", cfg.Directory.Limit)
	}
}

func TestLoadFromPath_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad log level", "log_level: loud\n"},
		{"zero interval", "reconcile: {interval_seconds: 0}\n"},
		{"empty class", "frame: {class: ''}\n"},
		{"zero limit", "directory: {limit: 0}\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.body), 0644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := LoadFromPath(path); err == nil {
				t.Fatalf("expected validation error for %q", tc.body)
			}
		})
	}
}

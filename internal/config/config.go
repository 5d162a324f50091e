package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment overrides. A double underscore descends one
// level: PLAYBOOK_SERVE__PORT sets serve.port.
const EnvPrefix = "PLAYBOOK_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PLAYBOOK_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var (
	validModes       = map[string]bool{ModeSingle: true, ModeRouter: true, ModeStandalone: true}
	validLeading     = map[string]bool{"attach": true, "separate": true, "drop": true}
	validSearchModes = map[string]bool{"terms": true, "first": true}
	validLogLevels   = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}

	if !validModes[c.Mode] {
		return fmt.Errorf("invalid mode %q: must be one of single, router, standalone", c.Mode)
	}

	if c.Segment.Leading != "" && !validLeading[c.Segment.Leading] {
		return fmt.Errorf("invalid segment.leading %q: must be one of attach, separate, drop", c.Segment.Leading)
	}
	if c.Segment.Level < 0 || c.Segment.Level > 6 {
		return fmt.Errorf("segment.level must be between 0 and 6, got %d", c.Segment.Level)
	}

	if c.Search.Mode != "" && !validSearchModes[c.Search.Mode] {
		return fmt.Errorf("invalid search.mode %q: must be one of terms, first", c.Search.Mode)
	}
	if c.Search.MinLength < 0 {
		return fmt.Errorf("search.min_length must be non-negative")
	}

	for i, ep := range c.EntryPoints {
		if strings.TrimSpace(ep.Label) == "" {
			return fmt.Errorf("entry_points[%d]: label is required", i)
		}
	}

	if c.Viewport.Height < 0 || c.Viewport.LineHeight < 0 || c.Viewport.CharsPerLine < 0 {
		return fmt.Errorf("viewport dimensions must be non-negative")
	}

	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d out of range", c.Serve.Port)
	}

	if c.Build.OutputDir == "" {
		return fmt.Errorf("build.output_dir is required")
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	return nil
}

// Path joins p onto the configured root unless it is already absolute.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	root := c.Root
	if root == "" {
		root = "."
	}
	return filepath.Join(root, p)
}

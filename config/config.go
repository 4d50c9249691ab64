// Package config handles loading and validating daylog configuration from
// YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rotation strategies.
const (
	StrategyDaily = "daily"
	StrategySize  = "size"
)

// Config is the root configuration for a daylog logger.
type Config struct {
	// Service identifies the log stream and becomes the stable filename
	// prefix. Required.
	Service string `yaml:"service"`

	// Dir is the directory log files are written to.
	Dir string `yaml:"dir"`

	// Level is the minimum severity written to any output: one of debug,
	// info, warn, error, critical.
	Level string `yaml:"level"`

	// Console echoes every record to stdout in a shortened format,
	// independent of file rotation.
	Console bool `yaml:"console"`

	// MaxFiles is the retention count: the maximum number of rotated files
	// kept per service. 0 keeps only the active file; negative values are
	// normalized to 0 by the core.
	MaxFiles int `yaml:"maxFiles"`

	Rotation RotationConfig `yaml:"rotation"`
}

// RotationConfig selects and tunes the rotation strategy. The size knobs
// only apply to the size strategy.
type RotationConfig struct {
	Strategy   string `yaml:"strategy"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Service:  "app",
		Dir:      "logs",
		Level:    "info",
		Console:  true,
		MaxFiles: 30,
		Rotation: RotationConfig{
			Strategy:   StrategyDaily,
			MaxSizeMB:  100,
			MaxBackups: 7,
			MaxAgeDays: 30,
		},
	}
}

// Load reads and parses a YAML configuration file. Absent keys keep their
// Default values, so an explicit `maxFiles: 0` or `console: false` in the
// file is honored.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// servicePattern rejects service names ending in the rotation timestamp
// pattern, which would make filename prefix extraction ambiguous.
var servicePattern = regexp.MustCompile(`_\d{4}-\d{2}-\d{2}(-\d{2}-\d{2})?$`)

// Validate checks the constraints the logging core depends on.
func (c *Config) Validate() error {
	if c.Service == "" {
		return errors.New("service name is required")
	}
	if servicePattern.MatchString(c.Service) {
		return fmt.Errorf("service name %q ends in the rotation timestamp pattern", c.Service)
	}
	if c.Dir == "" {
		return errors.New("log directory is required")
	}
	switch c.Level {
	case "debug", "info", "warn", "error", "critical":
	default:
		return fmt.Errorf("invalid log level %q", c.Level)
	}
	switch c.Rotation.Strategy {
	case StrategyDaily, StrategySize:
	default:
		return fmt.Errorf("invalid rotation strategy %q", c.Rotation.Strategy)
	}
	return nil
}

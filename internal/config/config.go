// Package config reads the optional runtest.toml settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "RUNTEST_CONFIG"

// Config captures defaults for flags that were not given on the command line.
type Config struct {
	// Timeout bounds how long the program under test may run, as a Go
	// duration string ("30s"). Empty or "0" disables the limit.
	Timeout  string `toml:"timeout"`
	Encoding string `toml:"encoding"`
	Color    string `toml:"color"`
	Format   string `toml:"format"`
	MaxWidth int    `toml:"max_width"`
}

var (
	// ErrInvalidColor indicates the color mode is not recognized.
	ErrInvalidColor = errors.New("config.color must be auto, always, or never")
	// ErrInvalidFormat indicates the report format is not recognized.
	ErrInvalidFormat = errors.New("config.format must be text or json")
	// ErrInvalidTimeout indicates the timeout is not a non-negative duration.
	ErrInvalidTimeout = errors.New("config.timeout must be a non-negative duration")
	// ErrInvalidMaxWidth indicates a negative value width.
	ErrInvalidMaxWidth = errors.New("config.max_width must not be negative")
)

// Default returns the settings used when no config file is given.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Timeout == "" {
		c.Timeout = "0"
	}
	if c.Encoding == "" {
		c.Encoding = "utf-8"
	}
	if c.Color == "" {
		c.Color = "auto"
	} else {
		c.Color = strings.ToLower(c.Color)
	}
	if c.Format == "" {
		c.Format = "text"
	} else {
		c.Format = strings.ToLower(c.Format)
	}
}

// Validate ensures the configuration can drive a run.
func (c Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return ErrInvalidColor
	}
	switch c.Format {
	case "text", "json":
	default:
		return ErrInvalidFormat
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.MaxWidth < 0 {
		return ErrInvalidMaxWidth
	}
	return nil
}

// TimeoutDuration parses Timeout. Zero means no limit.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" || c.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, c.Timeout)
	}
	return d, nil
}

// Load reads configuration from disk. An empty path returns Default.
// Unlike a project config, a named file that does not exist is an error.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

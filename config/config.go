// Package config loads emv settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/emv/terminal"
)

// Config holds every user-tunable setting. Zero values in the file fall
// back to Default.
type Config struct {
	Device        string        `yaml:"device"`         // terminal device, empty for /dev/tty
	Banner        string        `yaml:"banner"`         // welcome text, "-" hides it
	EscapeTimeout time.Duration `yaml:"escape_timeout"` // e.g. "50ms"
	DefaultRows   int           `yaml:"default_rows"`   // fallback when the size query fails
	DefaultCols   int           `yaml:"default_cols"`
	Mouse         bool          `yaml:"mouse"`
	QuitKey       string        `yaml:"quit_key"` // key name, see terminal.ParseKeyName
	Debug         bool          `yaml:"debug"`
}

// Limits for numeric settings
const (
	maxEscapeTimeout = 2 * time.Second
	maxDimension     = 10000
)

// noBanner is the banner value that disables the welcome text
const noBanner = "-"

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Banner:        terminal.DefaultBanner,
		EscapeTimeout: 50 * time.Millisecond,
		DefaultRows:   terminal.DefaultGeometry.Rows,
		DefaultCols:   terminal.DefaultGeometry.Cols,
		QuitKey:       "q",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/emv/config.yaml or the platform equivalent
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "emv", "config.yaml")
}

// Load reads path on top of the defaults. A missing file yields the
// defaults; unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and the quit key name
func (c *Config) Validate() error {
	if c.EscapeTimeout <= 0 || c.EscapeTimeout > maxEscapeTimeout {
		return fmt.Errorf("escape_timeout %v out of range (0, %v]", c.EscapeTimeout, maxEscapeTimeout)
	}
	if c.DefaultRows < 1 || c.DefaultRows > maxDimension {
		return fmt.Errorf("default_rows %d out of range [1, %d]", c.DefaultRows, maxDimension)
	}
	if c.DefaultCols < 1 || c.DefaultCols > maxDimension {
		return fmt.Errorf("default_cols %d out of range [1, %d]", c.DefaultCols, maxDimension)
	}
	if _, err := terminal.ParseKeyName(c.QuitKey); err != nil {
		return fmt.Errorf("quit_key: %w", err)
	}
	return nil
}

// Quit returns the parsed quit key. Call Validate first.
func (c *Config) Quit() terminal.Key {
	k, err := terminal.ParseKeyName(c.QuitKey)
	if err != nil {
		return terminal.Char('q')
	}
	return k
}

// Options translates the settings for terminal.Open
func (c *Config) Options() terminal.Options {
	opts := terminal.Options{
		DevicePath:    c.Device,
		EscapeTimeout: c.EscapeTimeout,
		Fallback:      terminal.Geometry{Rows: c.DefaultRows, Cols: c.DefaultCols},
	}
	switch c.Banner {
	case noBanner:
		opts.NoBanner = true
	default:
		opts.Banner = c.Banner
	}
	if c.Mouse {
		opts.MouseMode = terminal.MouseModeClick | terminal.MouseModeDrag
	}
	return opts
}

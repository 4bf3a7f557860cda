// Package config loads the optional project configuration that provides
// defaults for the command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mbourmaud/failprint/internal/capture"
	"github.com/mbourmaud/failprint/internal/format"
	"gopkg.in/yaml.v3"
)

// FileNames are looked up, in order, by LoadOrDefault
var FileNames = []string{".failprint.yaml", ".failprint.yml", ".failprint.toml"}

// Config holds the run defaults
type Config struct {
	// Format is a format name; empty defers to the environment
	Format   string `yaml:"format,omitempty" toml:"format,omitempty"`
	Capture  string `yaml:"capture" toml:"capture"`
	PTY      bool   `yaml:"pty" toml:"pty"`
	Progress bool   `yaml:"progress" toml:"progress"`
	Quiet    bool   `yaml:"quiet" toml:"quiet"`
	Silent   bool   `yaml:"silent" toml:"silent"`
	NoFail   bool   `yaml:"nofail" toml:"nofail"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Capture:  capture.Both.String(),
		Progress: true,
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or TOML (by extension) configuration file. Missing keys
// keep their default value.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if isTOML(cleanPath) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", cleanPath, err)
	}

	return cfg, nil
}

// Find returns the first configuration file present in dir, or ""
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadOrDefault loads the configuration file of the working directory, falling
// back to defaults when there is none. A file that exists but cannot be parsed
// is an error.
func LoadOrDefault() (*Config, error) {
	path := Find(".")
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the config to a file, as TOML when path ends in .toml
func (c *Config) Save(path string) error {
	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CaptureMode parses the configured capture mode
func (c *Config) CaptureMode() (capture.Mode, error) {
	return capture.Parse(c.Capture)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.CaptureMode(); err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	if c.Format != "" {
		if _, err := format.Resolve(c.Format); err != nil {
			return fmt.Errorf("format: %w", err)
		}
	}

	return nil
}

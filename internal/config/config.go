// Package config loads and persists user configuration for revet.
// Configuration is optional: every field has a default, and a missing
// config file means defaults throughout. A malformed config file is a
// fatal configuration error, reported before any scan begins.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"revet/internal/finding"
	"revet/internal/logging"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "revet" // application name used for config directory

// Config holds user configuration for revet.
type Config struct {
	// Threshold is the default severity that fails a review when the
	// caller does not supply one.
	Threshold finding.Severity `yaml:"threshold"`

	// ScannerTimeoutSeconds overrides every scanner's own timeout
	// when positive.
	ScannerTimeoutSeconds int `yaml:"scanner_timeout_seconds"`

	// DisabledScanners lists external tools that are never probed or
	// invoked, by name.
	DisabledScanners []string `yaml:"disabled_scanners"`

	// ExtraScannerPaths are additional directories searched for
	// scanner binaries, for tools installed outside PATH.
	ExtraScannerPaths []string `yaml:"extra_scanner_paths"`

	Version string `yaml:"version"` // Track config version
}

// ScannerTimeout returns the configured override as a duration, or zero
// when each tool should use its own timeout.
func (c *Config) ScannerTimeout() time.Duration {
	if c.ScannerTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.ScannerTimeoutSeconds) * time.Second
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() (string, error) {
	configDir := filepath.Join(xdg.ConfigHome, APP_NAME)
	configPath := filepath.Join(configDir, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath, nil
}

// Load loads the config from the standard location. A missing config
// file is not an error; defaults are returned instead.
func Load() (*Config, error) {
	configPath, exists := FindConfigFile()
	logging.Debug("Loading config from", "path", configPath)
	if !exists {
		cfg := DefaultConfig()
		return &cfg, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads config from a specific path
func LoadFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// FindConfigFile returns the path to an existing config file, and whether it exists.
func FindConfigFile() (string, bool) {
	primary, err := ConfigPath()
	if err != nil {
		logging.Error("Failed to get config path", "error", err)
		return "", false
	}

	if _, err := os.Stat(primary); err == nil {
		logging.Debug("Config found at primary path", "path", primary)
		return primary, true
	}

	// Return primary path for new config
	return primary, false
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Threshold: finding.SeverityHigh,
		Version:   "1.0",
	}
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	configPath, _ := FindConfigFile()
	return c.SaveTo(configPath)
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Package config loads optional user configuration for nbfix.
//
// Configuration is a small YAML file with defaults for behavior that is
// otherwise flag-driven. The file is looked up at $NBFIX_CONFIG, falling
// back to ~/.config/nbfix/config.yaml; a missing file simply yields the
// defaults. Flags always win over the config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user-configurable defaults.
type Config struct {
	// BackupSuffix is appended to a notebook's path to form its backup
	// path in fix mode (default ".bak").
	BackupSuffix string `yaml:"backup_suffix"`

	// Color controls colored console output: "auto", "always" or "never".
	Color string `yaml:"color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BackupSuffix: ".bak",
		Color:        "auto",
	}
}

// Path returns the config file location. NBFIX_CONFIG overrides the default
// of ~/.config/nbfix/config.yaml.
func Path() (string, error) {
	if p := os.Getenv("NBFIX_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "nbfix", "config.yaml"), nil
}

// Load reads the config file, returning defaults when it does not exist.
// Fields absent from the file keep their default values.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.BackupSuffix == "" {
		cfg.BackupSuffix = Default().BackupSuffix
	}
	if cfg.Color == "" {
		cfg.Color = Default().Color
	}

	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return nil, fmt.Errorf("invalid color setting %q in %s (want auto, always or never)", cfg.Color, path)
	}

	return cfg, nil
}

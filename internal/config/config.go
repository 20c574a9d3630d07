package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Config represents the markwalk configuration
type Config struct {
	MaxWidth  int    `json:"max_width"`          // Maximum content width in columns (0 = terminal width)
	Gitignore bool   `json:"gitignore"`          // Honor .gitignore files in the file tree
	Watch     bool   `json:"watch"`              // Reload the open file when it changes on disk
	LogFile   string `json:"log_file,omitempty"` // Debug log path (empty = logging disabled)
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxWidth:  0,
		Gitignore: true,
		Watch:     true,
		LogFile:   "",
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "markwalk", "config.json")
	}
	return filepath.Join(home, ".config", "markwalk", "config.json")
}

// Load reads configuration from the config file. When the file is missing
// the defaults are returned; fields absent from the file keep their defaults.
func Load() (*Config, error) {
	configPath := ConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Pointer fields distinguish absent keys from explicit zero values
	var raw struct {
		MaxWidth  *int   `json:"max_width"`
		Gitignore *bool  `json:"gitignore"`
		Watch     *bool  `json:"watch"`
		LogFile   string `json:"log_file"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	if raw.MaxWidth != nil {
		cfg.MaxWidth = *raw.MaxWidth
	}
	if raw.Gitignore != nil {
		cfg.Gitignore = *raw.Gitignore
	}
	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}
	cfg.LogFile = raw.LogFile

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Expand paths
	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxWidth < 0 {
		return fmt.Errorf("max_width cannot be negative")
	}
	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}

// Package config manages kymerge configuration and the .kynetic directory
// structure. It handles loading, saving, and initializing the workspace
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	KyneticDir   = ".kynetic"
	ConfigFile   = "config"
	DatabaseFile = "merges.db"
)

// Config represents the kymerge configuration
type Config struct {
	Interactive bool   `toml:"interactive"` // Default the merge command to interactive resolution
	Journal     bool   `toml:"journal"`     // Record merges in the SQLite journal
	path        string // path to .kynetic directory (empty when running on defaults)
}

// FindKyneticRoot finds the .kynetic directory by walking up from the
// current directory
func FindKyneticRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		kyneticPath := filepath.Join(dir, KyneticDir)
		if info, err := os.Stat(kyneticPath); err == nil && info.IsDir() {
			return kyneticPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not a kynetic workspace (or any parent up to root)")
		}
		dir = parent
	}
}

// Load loads the configuration from the .kynetic directory
func Load() (*Config, error) {
	kyneticPath, err := FindKyneticRoot()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(kyneticPath, ConfigFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.path = kyneticPath
	return &cfg, nil
}

// LoadOrDefault loads the configuration, falling back to defaults when no
// .kynetic directory exists. The merge driver must work in repositories
// that never ran init: defaults are non-interactive with the journal off.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return &Config{}
	}
	return cfg
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configPath := filepath.Join(c.path, ConfigFile)
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// KyneticPath returns the path to the .kynetic directory
func (c *Config) KyneticPath() string {
	return c.path
}

// DatabasePath returns the path to the merge journal database, or "" when
// running on defaults with no workspace directory
func (c *Config) DatabasePath() string {
	if c.path == "" {
		return ""
	}
	return filepath.Join(c.path, DatabaseFile)
}

// Initialize creates a new .kynetic directory with initial configuration
func Initialize() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	kyneticPath := filepath.Join(cwd, KyneticDir)

	// Check if already initialized
	if _, err := os.Stat(kyneticPath); err == nil {
		return nil, fmt.Errorf("kynetic workspace already exists")
	}

	if err := os.MkdirAll(kyneticPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .kynetic directory: %w", err)
	}

	cfg := &Config{
		Journal: true,
		path:    kyneticPath,
	}

	if err := cfg.Save(); err != nil {
		// Cleanup on failure
		os.RemoveAll(kyneticPath)
		return nil, err
	}

	return cfg, nil
}

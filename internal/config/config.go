// Package config handles reading and writing .datadeck/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .datadeck/config.yaml.
type Config struct {
	Version int          `yaml:"version"`
	Server  ServerConfig `yaml:"server"`
	Upload  UploadConfig `yaml:"upload"`
}

// ServerConfig locates the data-analysis agent backend.
type ServerConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 0 disables the client-side timeout
}

// UploadConfig holds upload defaults.
type UploadConfig struct {
	SampleRows int    `yaml:"sample_rows"` // one of 50, 100, 500, 1000, 2000
	StartDir   string `yaml:"start_dir"`   // initial directory for the file picker
}

const configDir = ".datadeck"
const configFile = "config.yaml"

// ReadConfig reads .datadeck/config.yaml from the given base directory
// (normally the user's home directory, not .datadeck/ itself).
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// WriteConfig writes cfg to .datadeck/config.yaml in the given base
// directory. Creates the .datadeck/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 120,
		},
		Upload: UploadConfig{
			SampleRows: 100,
		},
	}
}

// Load reads the config from the user's home directory, falling back to
// defaults when no config file exists yet.
func Load() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig()
	}
	cfg, err := ReadConfig(home)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

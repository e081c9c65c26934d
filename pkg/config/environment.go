package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment names a data environment: where the reference data tree
// lives and which CRDS server to resolve against.
type Environment struct {
	Name      string `yaml:"name"`
	DataDir   string `yaml:"data_dir"`
	CRDSURL   string `yaml:"crds_url,omitempty"`
	CRDSCache string `yaml:"crds_cache,omitempty"`
}

// Config holds the environment configurations
type Config struct {
	Environments []Environment `yaml:"environments"`
	Selected     string        `yaml:"selected,omitempty"`
}

// LoadEnvironments loads environment configurations from the default location
func LoadEnvironments() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".mirage", "environments.yaml")
	return LoadEnvironmentsFromFile(configPath)
}

// LoadEnvironmentsFromFile loads environment configurations from a specific file
func LoadEnvironmentsFromFile(path string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveEnvironments saves the environment configuration
func SaveEnvironments(config *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".mirage")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "environments.yaml")
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Find returns the named environment.
func (c *Config) Find(name string) (*Environment, bool) {
	for i := range c.Environments {
		if c.Environments[i].Name == name {
			return &c.Environments[i], true
		}
	}
	return nil, false
}

// getDefaultConfig returns a default configuration
func getDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Environments: []Environment{
			{
				Name:    "Local",
				DataDir: filepath.Join(home, "mirage_data"),
				CRDSURL: "https://jwst-crds.stsci.edu",
			},
		},
	}
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the tblman configuration
type Config struct {
	DefinitionsDir string     `yaml:"definitions_dir"`
	CatalogDir     string     `yaml:"catalog_dir"`
	Convention     Convention `yaml:"convention"`
	Logging        Logging    `yaml:"logging"`
}

// Convention describes how table files are laid out on the target
type Convention struct {
	BigEndian bool `yaml:"big_endian"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DefinitionsDir: "./definitions",
		CatalogDir:     "./catalog",
		Convention: Convention{
			BigEndian: true,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// ByteOrder returns the byte order of table files.
func (c *Config) ByteOrder() binary.ByteOrder {
	if c.Convention.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their default value.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig creates and saves a configuration pointing at
// definitionsDir, with the catalog stored next to the config file.
func BootstrapConfig(configPath string, definitionsDir string) (*Config, error) {
	config := DefaultConfig()
	if definitionsDir != "" {
		abs, err := filepath.Abs(definitionsDir)
		if err != nil {
			return nil, fmt.Errorf("invalid definitions path: %w", err)
		}
		config.DefinitionsDir = abs
	}
	config.CatalogDir = filepath.Join(filepath.Dir(configPath), "catalog")

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./tblman.yaml"
	}

	// For Linux/macOS, use ~/.config/tblman/config.yaml
	configDir := filepath.Join(homeDir, ".config", "tblman")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}

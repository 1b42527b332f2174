//go:build !tinygo

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAML parses a YAML configuration. Fields missing from the document
// keep their Default values.
func LoadYAML(data []byte) (*Config, error) {
	config := Default()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyDefaults(config)

	return config, nil
}

// LoadFile reads a JSON or YAML configuration, chosen by file extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		cfg, err = LoadConfig(data)
	case ".yaml", ".yml":
		cfg, err = LoadYAML(data)
	default:
		return nil, fmt.Errorf("config %s: unsupported format", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name looked up in the
// current directory.
const DefaultConfigFile = ".ucma.yaml"

// XDGConfigFile is the configuration file name inside XDGConfigDir.
const XDGConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads the configuration from a YAML file. Values absent
// from the file keep their defaults. Unknown keys are an error.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes configuration YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := NewConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. .ucma.yaml in the current directory
//  3. config.yaml in XDGConfigDir
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), XDGConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// Load finds and loads the configuration. An explicit configPath that does
// not exist is ErrConfigNotFound; when no file is found otherwise the
// defaults are returned.
func Load(configPath string) (*Config, error) {
	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return NewConfig(), nil
	}
	return LoadConfigFile(path)
}

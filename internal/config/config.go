// Package config loads project settings from .speclint.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// DefaultFile is looked for in the working directory when --config is not
// given.
const DefaultFile = ".speclint.yaml"

// Config holds the file-configurable settings. Explicit flags override
// these; these override the built-in defaults. Zero values mean "not set".
type Config struct {
	Threshold string   `yaml:"threshold"`
	Format    string   `yaml:"format"`
	Jobs      int      `yaml:"jobs"`
	Ignore    []string `yaml:"ignore"`
}

// Load reads and strictly decodes the config file at path. Unknown keys
// are errors so typos do not silently disable settings.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault loads DefaultFile when present. A missing file is fine.
func LoadDefault() (*Config, error) {
	cfg, err := Load(DefaultFile)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

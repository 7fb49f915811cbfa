// Package config reads the optional operator config file.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voidshard/conveyor/pkg/structs"
)

// Config is the file form of what can otherwise be set by flags. Flags win.
type Config struct {
	DatabaseURL string `yaml:"database_url"`
	QueueURL    string `yaml:"queue_url"`

	Engine structs.Options `yaml:"engine"`
}

// Load reads path. An empty path returns an empty Config.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a config document, rejecting unknown keys.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Merge fills any zero field of opts from the file.
func (c *Config) Merge(opts *structs.Options) {
	if opts.Origin == "" {
		opts.Origin = c.Engine.Origin
	}
	if opts.Region == "" {
		opts.Region = c.Engine.Region
	}
	if len(opts.RawContainerTypes) == 0 {
		opts.RawContainerTypes = c.Engine.RawContainerTypes
	}
	if opts.SystemGranuleLimit <= 0 {
		opts.SystemGranuleLimit = c.Engine.SystemGranuleLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = c.Engine.Timeout
	}
}

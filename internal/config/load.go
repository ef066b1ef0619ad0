package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the topology file looked up in the working
// directory when no --config flag is given.
const DefaultConfigFilename = "orchestrate.yaml"

// Load reads, defaults and validates a topology description from a file.
func Load(path string) (*Topology, error) {
	// #nosec G304 -- path comes from the operator's --config flag.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes defaults and validates a topology description from raw
// YAML.
func LoadFromBytes(data []byte) (*Topology, error) {
	topo, err := parse(data)
	if err != nil {
		return nil, err
	}

	topo.applyDefaults()

	if err := topo.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return topo, nil
}

func parse(data []byte) (*Topology, error) {
	var topo Topology
	if err := yaml.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &topo, nil
}

// DefaultConfigPath returns the default topology file path in the
// current working directory.
func DefaultConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return DefaultConfigFilename
	}
	return filepath.Join(cwd, DefaultConfigFilename)
}

// ResolvePath returns the explicit path when given, otherwise the
// default location.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	return DefaultConfigPath()
}

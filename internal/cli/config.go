package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when --config is
// not given.
const DefaultConfigFile = "hodq.yaml"

// Config carries per-project defaults. Flags given explicitly on the command
// line always win over config values.
type Config struct {
	// Ontology is the default ontology file for run/query/stats.
	Ontology string `yaml:"ontology"`
	// Queries is a directory of CUE files replacing the embedded battery.
	Queries string `yaml:"queries"`
	// Database is the session-log SQLite path.
	Database string `yaml:"database"`
	// Endpoint is a remote SPARQL endpoint URL; empty means in-process.
	Endpoint string `yaml:"endpoint"`
	// Limit overrides every query's row limit when positive.
	Limit int `yaml:"limit"`
	// TimeoutSeconds bounds each query; zero means no deadline.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LoadConfig reads the config file at path, or the default file when path is
// empty. A missing default file is not an error; a missing explicit path is.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Limit < 0 {
		return nil, fmt.Errorf("config %s: limit must be non-negative", path)
	}
	if cfg.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("config %s: timeout_seconds must be non-negative", path)
	}
	return cfg, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied to every batch. The base URL and concurrency match
// the gateway's local development setup.
const (
	DefaultBaseURL     = "http://localhost:3001"
	DefaultConcurrency = 3
	DefaultUserAgent   = "volley/0.1.0"
)

// DefaultTimeout is the per-request timeout when none is configured.
const DefaultTimeout = Duration(30 * time.Second)

// Load reads a batch definition from a YAML or JSON file, picking the
// format from the file extension.
func Load(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data, path)
}

// Parse decodes batch data. The extension in path selects the decoder;
// anything unrecognized (including an empty path) is tried as YAML,
// which also covers JSON since YAML is a superset.
func Parse(data []byte, path string) (*Batch, error) {
	var batch Batch

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	return &batch, nil
}

// ApplyDefaults fills unset settings.
func ApplyDefaults(batch *Batch) {
	if batch.Settings.BaseURL == "" {
		batch.Settings.BaseURL = DefaultBaseURL
	}
	if batch.Settings.Concurrency == 0 {
		batch.Settings.Concurrency = DefaultConcurrency
	}
	if batch.Settings.Timeout == 0 {
		batch.Settings.Timeout = DefaultTimeout
	}
	if batch.Settings.UserAgent == "" {
		batch.Settings.UserAgent = DefaultUserAgent
	}
}

/*
Copyright © 2025 dagslott
*/

// Package config loads and persists the engine configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dagslott/imagesort/internal/sorter"
)

// ConfigFileName is resolved under the user's home directory by the CLI
// unless --config points elsewhere; Load falls back to the bare name (the
// working directory) when given an empty path.
const ConfigFileName = "imagesort.yaml"

// EngineConfig tunes the duplicate-detection engine.
type EngineConfig struct {
	// Threshold is the maximum Hamming distance (0..64) for two fingerprints
	// to count as visual duplicates.
	Threshold int `yaml:"threshold"`
	// HashWorkers sizes the partial-signature pool.
	HashWorkers int `yaml:"hash_workers"`
	// DecodeWorkers sizes the image-decoding pool.
	DecodeWorkers int `yaml:"decode_workers"`
	// Algorithm names the perceptual-hash variant: difference, perception or
	// average.
	Algorithm string `yaml:"algorithm"`
	// CacheDir holds the fingerprint and thumbnail caches. Empty selects a
	// directory under the OS temp dir.
	CacheDir string `yaml:"cache_dir"`
}

// Config is the full configuration file.
type Config struct {
	Engine EngineConfig  `yaml:"engine"`
	Sort   sorter.Config `yaml:"sort"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Threshold:     10,
			HashWorkers:   16,
			DecodeWorkers: 8,
			Algorithm:     "difference",
		},
	}
}

// Load reads the configuration at path, falling back to defaults when the
// file does not exist. A present-but-invalid file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("error reading configuration: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}
	if cfg.Engine.Threshold < 0 || cfg.Engine.Threshold > 64 {
		return nil, fmt.Errorf("threshold must be within 0..64, got %d", cfg.Engine.Threshold)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = ConfigFileName
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error serializing configuration: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating configuration directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing configuration: %w", err)
	}
	return nil
}

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

// EnvConfig names the environment variable that points at a config file
// when no -config flag is given.
const EnvConfig = "GRIDMAP_CONFIG"

// Load loads configuration with priority: defaults < file < flags, then
// validates the merged result. flags may be nil.
//
// The file is the -config flag if set, else $GRIDMAP_CONFIG, else the first
// existing entry of SearchPaths. An explicitly named file must exist.
func Load(flags *Flags) (*Config, error) {
	cfg := Default()

	configPath := explicitPath(flags)
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	if flags != nil {
		flags.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
		return nil, err
	}
	return cfg, nil
}

func explicitPath(flags *Flags) string {
	if flags != nil && flags.Config != "" {
		return flags.Config
	}
	return os.Getenv(EnvConfig)
}

// SearchPaths lists the implicit config locations in lookup order.
func SearchPaths() []string {
	return []string{
		"gridmap.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
}

func findConfigFile() string {
	for _, path := range SearchPaths() {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user gridmap config directory.
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		// No home directory: fall back next to the working directory.
		dir, _ = filepath.Abs(".")
	}
	return filepath.Join(dir, "gridmap")
}

// loadFromFile merges a YAML file into cfg. Unknown keys are rejected so a
// misspelt setting does not silently keep its default. An empty file
// changes nothing.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

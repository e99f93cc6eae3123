// Package config handles loader configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/gridmap/internal/logger"
	"github.com/Faultbox/gridmap/pkg/mapload"
)

// Config holds all settings.
type Config struct {
	Loader  LoaderConfig  `yaml:"loader"`
	Logging LoggingConfig `yaml:"logging"`
}

// Map formats accepted by LoaderConfig.Format.
const (
	FormatAuto  = "auto"
	FormatImage = "image"
	FormatText  = "text"
	FormatGAT   = "gat"
)

// Formats lists the valid LoaderConfig.Format values.
var Formats = []string{FormatAuto, FormatImage, FormatText, FormatGAT}

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("config: invalid setting")

// LoaderConfig holds map loading settings.
type LoaderConfig struct {
	// Format selects the occupancy loader. FormatAuto picks it from the
	// file extension.
	Format string `yaml:"format"`

	// StrictDims makes the text loader reject files whose declared number
	// of dimensions differs from the grid's.
	StrictDims bool `yaml:"strict_dims"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Loader: LoaderConfig{
			Format:     FormatAuto,
			StrictDims: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that no loader or logger accepts.
func (c *Config) Validate() error {
	if err := c.Loader.Validate(); err != nil {
		return err
	}
	if c.Logging.Level != "" {
		if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
		}
	}
	return nil
}

// Validate checks the loader settings. An empty format means FormatAuto.
func (c LoaderConfig) Validate() error {
	if c.Format != "" && !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("%w: loader.format %q, expected one of %v", ErrInvalid, c.Format, Formats)
	}
	return nil
}

// ResolveFormat returns the concrete format used to load path. With
// FormatAuto, .gat files are GAT tables, .txt and .map files are text maps
// and anything else is treated as an image.
func (c LoaderConfig) ResolveFormat(path string) string {
	if c.Format != "" && c.Format != FormatAuto {
		return c.Format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gat":
		return FormatGAT
	case ".txt", ".map":
		return FormatText
	}
	return FormatImage
}

// TextOptions returns the text loader options for this configuration.
func (c LoaderConfig) TextOptions() mapload.TextOptions {
	return mapload.TextOptions{StrictDims: c.StrictDims}
}

// InitLogger initializes the global logger from these settings.
func (c LoggingConfig) InitLogger() error {
	return logger.Init(c.Level, c.LogFile)
}

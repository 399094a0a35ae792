package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/peekproxy/peek/internal/constants"
	"github.com/peekproxy/peek/internal/domain"
)

// Config represents the top-level peek configuration
type Config struct {
	Listen  string        `yaml:"listen"`
	Target  string        `yaml:"target"`
	EnvFile string        `yaml:"env_file"`
	History HistoryConfig `yaml:"history"`
	Display DisplayConfig `yaml:"display"`
	Storage StorageConfig `yaml:"storage"`
	Export  ExportConfig  `yaml:"export"`
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
	Capture CaptureConfig `yaml:"capture"`
}

// HistoryConfig bounds the in-memory exchange buffer
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// DisplayConfig holds initial viewer settings
type DisplayConfig struct {
	DetailLevel int `yaml:"detail_level"`
}

// StorageConfig defines exchange persistence
type StorageConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"` // nil = enabled
	Path    string `yaml:"path"`
}

// ExportConfig defines where inspect documents are written
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// APIConfig defines the HTTP API configuration
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// LogConfig defines file logging (the terminal belongs to the viewer)
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// CaptureConfig bounds body capture
type CaptureConfig struct {
	MaxBodySize string `yaml:"max_body_size"`
}

// StorageEnabled reports whether exchanges should be persisted.
func (c *Config) StorageEnabled() bool {
	return c.Storage.Enabled == nil || *c.Storage.Enabled
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	if err := CheckFilePermissions(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	applyDefaults(config)

	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Default returns a config with all defaults applied and no target.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

func applyDefaults(c *Config) {
	if c.Listen == "" {
		c.Listen = constants.DefaultListenAddr
	}
	if c.History.Capacity == 0 {
		c.History.Capacity = constants.DefaultHistoryCapacity
	}
	if c.Display.DetailLevel == 0 {
		c.Display.DetailLevel = constants.DefaultDetailLevel
	}
	if c.Storage.Path == "" {
		c.Storage.Path = constants.DefaultStoragePath
	}
	if c.Export.Dir == "" {
		c.Export.Dir = constants.DefaultExportDir
	}
	if c.API.Host == "" {
		c.API.Host = constants.DefaultAPIHost
	}
	if c.API.Port == 0 {
		c.API.Port = constants.DefaultAPIPort
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Capture.MaxBodySize == "" {
		c.Capture.MaxBodySize = "64KB"
	}
}

// MaxBodyBytes returns the configured capture cap in bytes.
func (c *Config) MaxBodyBytes() (int64, error) {
	return ParseSize(c.Capture.MaxBodySize)
}

// ParseSize parses human-readable sizes like "512", "64KB", "2MB".
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("size must be non-negative")
	}
	return n * multiplier, nil
}

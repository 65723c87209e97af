package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds persistent defaults loaded from config files.
type Config struct {
	Tail     TailConfig     `yaml:"tail"`
	Serve    ServeConfig    `yaml:"serve"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// TailConfig holds terminal tailing defaults.
type TailConfig struct {
	File          string `yaml:"file"`
	Interval      string `yaml:"interval"`
	OpenArtifacts bool   `yaml:"open_artifacts"`
	NoArtifacts   bool   `yaml:"no_artifacts"`
}

// ServeConfig holds web server defaults.
type ServeConfig struct {
	Listen   string `yaml:"listen"`
	Interval string `yaml:"interval"`
}

// DefaultsConfig holds global defaults.
type DefaultsConfig struct {
	File    string `yaml:"file"`
	Verbose bool   `yaml:"verbose"`
}

// Load reads config from ~/.loglab/config.yaml then CWD .loglab.yaml.
// CWD config values override home config. Missing files are not errors.
// Environment variables (LOGLAB_*) override config file values.
func Load() *Config {
	cfg := &Config{}

	// home config
	if home, err := os.UserHomeDir(); err == nil {
		_ = loadFile(filepath.Join(home, ".loglab", "config.yaml"), cfg)
	}

	// CWD config overrides
	_ = loadFile(".loglab.yaml", cfg)

	// env overrides
	applyEnv(cfg)

	return cfg
}

// LoadFrom reads config from a specific path. Used for testing.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LOGLAB_FILE"); v != "" {
		cfg.Defaults.File = v
	}
	if v := os.Getenv("LOGLAB_TAIL_FILE"); v != "" {
		cfg.Tail.File = v
	}
	if v := os.Getenv("LOGLAB_TAIL_INTERVAL"); v != "" {
		cfg.Tail.Interval = v
	}
	if v := os.Getenv("LOGLAB_SERVE_LISTEN"); v != "" {
		cfg.Serve.Listen = v
	}
	if v := os.Getenv("LOGLAB_SERVE_INTERVAL"); v != "" {
		cfg.Serve.Interval = v
	}
	if v := os.Getenv("LOGLAB_VERBOSE"); v != "" {
		cfg.Defaults.Verbose = strings.EqualFold(v, "true") || v == "1"
	}
}

// Package config loads wintrack settings from a YAML file and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Norgate-AV/wintrack/internal/timeouts"
)

// DefaultProcess is the executable tracked when nothing else is configured
const DefaultProcess = "cs2.exe"

// Config holds the settings shared by the CLI commands
type Config struct {
	// Process is the executable name of the tracked application
	Process string `yaml:"process"`

	// Wait makes watch wait for the process instead of failing
	Wait        bool          `yaml:"wait"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`

	// Names annotates foreground events with the executable name
	Names bool `yaml:"names"`

	Record   bool   `yaml:"record"`
	Database string `yaml:"database"` // empty means the default event log path

	Log LogConfig `yaml:"log"`
}

// LogConfig mirrors the rotation settings of the file logger
type LogConfig struct {
	Dir        string `yaml:"dir"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Process:     DefaultProcess,
		WaitTimeout: timeouts.ProcessAppearTimeout,
	}
}

// DefaultPath returns %APPDATA%\wintrack\config.yaml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}

	return filepath.Join(dir, "wintrack", "config.yaml"), nil
}

// Load builds the configuration from defaults, the YAML file and the
// environment, in increasing precedence. An empty path means DefaultPath,
// which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file, defaults apply
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// Validate checks values that cannot be corrected silently
func (c *Config) Validate() error {
	if c.Process == "" {
		return errors.New("process must not be empty")
	}

	if c.WaitTimeout < 0 {
		return fmt.Errorf("wait_timeout must not be negative, got %s", c.WaitTimeout)
	}

	return nil
}

// Save writes cfg as YAML to path, creating the directory if needed
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

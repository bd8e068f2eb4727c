package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file is missing or a field is unset.
const (
	DefaultMaxSeriesLength = 1000
	DefaultWidth           = 13
	DefaultHeight          = 4
	DefaultView            = "graph"
	DefaultSettleMS        = 300
	DefaultLogLevel        = "info"
)

var validate = validator.New()

// Config holds session configuration stored at ~/.autoplot/config.
type Config struct {
	MaxSeriesLength int      `yaml:"max_series_length" validate:"gte=0"`
	Width           float64  `yaml:"width" validate:"gte=6,lte=20"`
	Height          float64  `yaml:"height" validate:"gte=3,lte=15"`
	YLabel          string   `yaml:"ylabel,omitempty"`
	DefaultView     string   `yaml:"default_view" validate:"oneof=graph dtale"`
	Reserved        []string `yaml:"reserved,omitempty" validate:"dive,required"`
	StoreURL        string   `yaml:"store_url,omitempty" validate:"omitempty,url"`
	StoreToken      string   `yaml:"store_token,omitempty"`
	SettleMS        int      `yaml:"settle_ms" validate:"gte=0"`
	LogLevel        string   `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxSeriesLength: DefaultMaxSeriesLength,
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		DefaultView:     DefaultView,
		SettleMS:        DefaultSettleMS,
		LogLevel:        DefaultLogLevel,
	}
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Settle is the store settling delay.
func (c *Config) Settle() time.Duration {
	return time.Duration(c.SettleMS) * time.Millisecond
}

// Path returns the config file path.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".autoplot", "config")
}

// Load reads and parses the config file. A missing file yields the defaults;
// an insecure or invalid one is an error.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save validates and writes the config to disk with secure permissions.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

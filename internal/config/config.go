package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file looked up in the working directory.
const FileName = "basbook.yaml"

// Config represents the top-level basbook.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Import   ImportConfig   `yaml:"import"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig identifies the business the books belong to.
type BusinessConfig struct {
	Name string `yaml:"name"`
	ABN  string `yaml:"abn,omitempty"`
}

// ImportConfig controls CSV normalization.
type ImportConfig struct {
	Variant     string `yaml:"variant"` // "standard" or "inferred"
	DropUndated bool   `yaml:"drop_undated"`
	GSTRate     string `yaml:"gst_rate"` // decimal, used by the inferred variant
	Dir         string `yaml:"dir"`
}

// ServerConfig controls `basbook serve`.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	SessionTTL     string `yaml:"session_ttl"` // Go duration, e.g. "24h"
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a basbook.yaml file from disk. Missing fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, falling back to Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(""), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
		},
		Import: ImportConfig{
			Variant: "standard",
			GSTRate: "0.10",
			Dir:     "import",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			SessionTTL:     "24h",
			MaxUploadBytes: 10 << 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks values that are parsed lazily.
func (c *Config) Validate() error {
	if _, err := c.GSTRate(); err != nil {
		return err
	}
	if _, err := c.SessionTTL(); err != nil {
		return err
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	return nil
}

// GSTRate parses import.gst_rate.
func (c *Config) GSTRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Import.GSTRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("import.gst_rate %q: %w", c.Import.GSTRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("import.gst_rate %s must be between 0 and 1", rate)
	}
	return rate, nil
}

// SessionTTL parses server.session_ttl.
func (c *Config) SessionTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("server.session_ttl %q: %w", c.Server.SessionTTL, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("server.session_ttl must be positive, got %s", d)
	}
	return d, nil
}

// Environment variables that override file settings.
const (
	EnvAddr        = "BASBOOK_ADDR"
	EnvLogLevel    = "BASBOOK_LOG_LEVEL"
	EnvVariant     = "BASBOOK_VARIANT"
	EnvDropUndated = "BASBOOK_DROP_UNDATED"
)

// ApplyEnv loads envFile (if it exists) into the process environment and
// then applies BASBOOK_* overrides to c.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvVariant); v != "" {
		c.Import.Variant = v
	}
	if v := os.Getenv(EnvDropUndated); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvDropUndated, v, err)
		}
		c.Import.DropUndated = b
	}
	return nil
}

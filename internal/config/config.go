// Package config loads elmchart settings from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config contains all elmchart configuration settings.
type Config struct {
	// Database selects the storage engine and how to reach it.
	Database DatabaseConfig `yaml:"database"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `yaml:"logging"`

	// Generator tunes the synthetic result generator.
	Generator GeneratorConfig `yaml:"generator"`
}

// DatabaseConfig configures the store.
type DatabaseConfig struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string `yaml:"driver"`

	// DSN is a file path for sqlite or a connection URL for postgres.
	// Empty falls back to the driver's default.
	DSN string `yaml:"dsn"`

	// MaxConns caps the postgres pool size. Ignored by sqlite.
	MaxConns int32 `yaml:"max_conns"`
}

// LoggingConfig sets the log verbosity: "info" (default), "debug", or "trace".
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GeneratorConfig mirrors population.GeneratorOptions plus the random seed.
type GeneratorConfig struct {
	Days             int     `yaml:"days"`
	Distribution     []int   `yaml:"distribution"`
	HourMin          int     `yaml:"hour_min"`
	HourMax          int     `yaml:"hour_max"`
	ConcentrationMin float64 `yaml:"concentration_min"`
	ConcentrationMax float64 `yaml:"concentration_max"`

	// Seed fixes the random source. 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// Default returns a Config with the stock generator parameters and a local sqlite file.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:   "sqlite",
			MaxConns: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Generator: GeneratorConfig{
			Days:             600,
			Distribution:     []int{0, 0, 1, 1, 2, 4, 6},
			HourMin:          10,
			HourMax:          16,
			ConcentrationMin: 3.5,
			ConcentrationMax: 7.4,
		},
	}
}

// Load reads path (if non-empty) or ~/.elmchart/config.yaml (if present),
// then applies environment overrides.
// Order: defaults -> config file -> environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, ".elmchart", "config.yaml")
			if _, statErr := os.Stat(candidate); statErr == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileCfg
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
// Generator ranges are checked by population.GeneratorOptions.Validate.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid database driver: %q (valid: sqlite, postgres)", c.Database.Driver)
	}
	if c.Database.MaxConns < 0 {
		return fmt.Errorf("max_conns must be non-negative, got %d", c.Database.MaxConns)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}
	return nil
}

// applyEnvOverrides applies ELMCHART_* environment variables to cfg.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("ELMCHART_DB_DRIVER"); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("ELMCHART_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("ELMCHART_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ELMCHART_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("ELMCHART_SEED: %w", err)
		}
		cfg.Generator.Seed = seed
	}
	return nil
}

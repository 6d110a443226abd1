package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/papapumpkin/pheno/internal/logging"
)

// Config holds all runtime configuration for a pheno session.
// Values are populated from .pheno.yaml, PHENO_* env vars, and CLI flags.
type Config struct {
	Scenario      string `mapstructure:"scenario"`
	TelemetryPath string `mapstructure:"telemetry_path"`
	LogLevel      string `mapstructure:"log_level"`
	LogFile       string `mapstructure:"log_file"`
	Verbose       bool   `mapstructure:"verbose"`
	Days          int    `mapstructure:"days"` // 0 = use the scenario's schedule.days
	NoColor       bool   `mapstructure:"no_color"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("scenario", "scenario.toml")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "")
	viper.SetDefault("verbose", false)
	viper.SetDefault("days", 0)
	viper.SetDefault("no_color", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}
	if !slices.Contains(logging.ValidLevels(), strings.ToUpper(cfg.LogLevel)) {
		return Config{}, fmt.Errorf("config: log_level %q (valid: %s)", cfg.LogLevel, strings.Join(logging.ValidLevels(), ", "))
	}
	if cfg.Days < 0 {
		return Config{}, fmt.Errorf("config: days must be >= 0, got %d", cfg.Days)
	}
	return cfg, nil
}

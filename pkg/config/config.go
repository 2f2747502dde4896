// Package config loads raven.yml.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. RAVEN_ANALYSIS_TIMEOUT=30s.
const EnvPrefix = "RAVEN"

// Config represents raven.yml configuration
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// AnalysisConfig tunes the coordinator and the extractor.
type AnalysisConfig struct {
	// Timeout is the wall-clock budget of one analysis.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// ShutdownGrace is how long Shutdown waits before forcing in-flight
	// analyses to stop.
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace" yaml:"shutdown_grace"`
	// Workers caps concurrent analyses; 0 means min(GOMAXPROCS, 4).
	Workers int `mapstructure:"workers" yaml:"workers"`
	// RootType is the universal supertype.
	RootType string `mapstructure:"root_type" yaml:"root_type"`
	// CommonTypes are appended to the built-in exclusion list, or replace
	// it when ReplaceCommonTypes is set.
	CommonTypes        []string `mapstructure:"common_types" yaml:"common_types,omitempty"`
	ReplaceCommonTypes bool     `mapstructure:"replace_common_types" yaml:"replace_common_types,omitempty"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Timeout:       5 * time.Minute,
			ShutdownGrace: 10 * time.Second,
			Workers:       0,
			RootType:      "java.lang.Object",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist. RAVEN_* environment variables override both.
func Load(path string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("analysis.timeout", def.Analysis.Timeout)
	v.SetDefault("analysis.shutdown_grace", def.Analysis.ShutdownGrace)
	v.SetDefault("analysis.workers", def.Analysis.Workers)
	v.SetDefault("analysis.root_type", def.Analysis.RootType)
	v.SetDefault("analysis.common_types", []string{})
	v.SetDefault("analysis.replace_common_types", false)
	v.SetDefault("log.level", def.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvFiles loads .env style files into the process environment. Missing
// files are ignored; with no arguments ".env" is tried.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading env file %s: %w", p, err)
		}
	}
	return nil
}

// Validate rejects values the coordinator cannot run with.
func (c *Config) Validate() error {
	if c.Analysis.Timeout <= 0 {
		return fmt.Errorf("analysis.timeout must be positive, got %s", c.Analysis.Timeout)
	}
	if c.Analysis.ShutdownGrace < 0 {
		return fmt.Errorf("analysis.shutdown_grace must not be negative, got %s", c.Analysis.ShutdownGrace)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must not be negative, got %d", c.Analysis.Workers)
	}
	if strings.TrimSpace(c.Analysis.RootType) == "" {
		return fmt.Errorf("analysis.root_type must be set")
	}
	return nil
}

// SaveConfig writes configuration to a YAML file
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

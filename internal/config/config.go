// =============================================================================
// XER to CSV Converter - Configuration Module
// =============================================================================
//
// This module loads the optional configuration for a conversion run.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. The YAML file given with --config (optional)
//   3. Environment variables, including those from a .env file:
//        XER2CSV_LOG_LEVEL, XER2CSV_LOG_FORMAT, XER2CSV_XLSX,
//        XER2CSV_SUMMARY, XER2CSV_NAME_MODE
//   4. Command-line flags (applied by the cmd package)
//
// EXAMPLE FILE:
//   log_level: debug
//   log_format: json
//   write_xlsx: true
//   name_mode: strict
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/XER-to-CSV-conversion/internal/csvwriter"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the settings for one conversion run.
type Config struct {
	// Extension is the input file extension, without the dot. Matching is
	// exact and case-sensitive.
	// Default: "xer"
	Extension string `yaml:"extension"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log handler.
	// Valid values: "text", "json"
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// WriteXLSX also writes <basename>.xlsx next to the section CSVs.
	// Default: false
	WriteXLSX bool `yaml:"write_xlsx"`

	// WriteSummary writes a processing summary file into the output root.
	// Default: false
	WriteSummary bool `yaml:"write_summary"`

	// NameMode decides how section names become file names.
	// Valid values: "compat", "strict"
	// Default: "compat"
	NameMode string `yaml:"name_mode"`

	// Inspect enables the structural checks on every section.
	// Default: true
	Inspect *bool `yaml:"inspect"`
}

// Environment variable names.
const (
	EnvLogLevel  = "XER2CSV_LOG_LEVEL"
	EnvLogFormat = "XER2CSV_LOG_FORMAT"
	EnvXLSX      = "XER2CSV_XLSX"
	EnvSummary   = "XER2CSV_SUMMARY"
	EnvNameMode  = "XER2CSV_NAME_MODE"
)

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load builds the run configuration.
//
// PARAMETERS:
//   - configPath: Path to a YAML file. Empty means no file.
//
// RETURNS:
//   - The loaded configuration.
//   - An error if the file cannot be read or parsed, or a value is invalid.
func Load(configPath string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyEnv overrides file values with environment variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv(EnvNameMode); v != "" {
		cfg.NameMode = v
	}

	bools := []struct {
		name   string
		target *bool
	}{
		{EnvXLSX, &cfg.WriteXLSX},
		{EnvSummary, &cfg.WriteSummary},
	}
	for _, b := range bools {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", b.name, v, err)
		}
		*b.target = parsed
	}

	return nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Extension == "" {
		cfg.Extension = "xer"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.NameMode == "" {
		cfg.NameMode = string(csvwriter.NameModeCompat)
	}
	if cfg.Inspect == nil {
		inspect := true
		cfg.Inspect = &inspect
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if strings.HasPrefix(c.Extension, ".") || strings.ContainsAny(c.Extension, `/\`) {
		errs = append(errs, fmt.Sprintf("extension %q must be a bare extension such as \"xer\"", c.Extension))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("log_level %q must be one of debug, info, warn, error", c.LogLevel))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log_format %q must be text or json", c.LogFormat))
	}

	if _, err := csvwriter.ParseNameMode(c.NameMode); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// SectionNameMode returns the parsed name mode. Call Validate first.
func (c *Config) SectionNameMode() csvwriter.NameMode {
	mode, err := csvwriter.ParseNameMode(c.NameMode)
	if err != nil {
		return csvwriter.NameModeCompat
	}
	return mode
}

// InspectEnabled reports whether structural checks should run.
func (c *Config) InspectEnabled() bool {
	return c.Inspect == nil || *c.Inspect
}

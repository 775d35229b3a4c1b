// Package config provides configuration management for the discovery pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrReadConfig    = errors.New("failed to read config file")
	ErrParseConfig   = errors.New("failed to parse YAML")
)

// Default values.
const (
	DefaultEnv        = "dev"
	DefaultRoot       = "."
	DefaultDedupBy    = "domain"
	DefaultLogLevel   = "info"
	DefaultOutputName = "findings.jsonl"
)

// Environment variables that override file values.
const (
	EnvAppEnv   = "APP_ENV"
	EnvRoot     = "PTO_ROOT"
	EnvInput    = "PTO_INPUT"
	EnvOutput   = "PTO_OUTPUT"
	EnvDedupBy  = "PTO_DEDUP_BY"
	EnvLogLevel = "LOG_LEVEL"
	EnvLogFile  = "LOG_FILE"
)

// Config is the complete pipeline configuration. It is built once by Load
// and passed down explicitly.
type Config struct {
	Env       string          `yaml:"env" validate:"oneof=dev staging prod"`
	Paths     Paths           `yaml:"paths"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Paths holds the working directory layout.
type Paths struct {
	Root string `yaml:"root" validate:"required"`
}

// DiscoveryConfig controls a discovery run.
type DiscoveryConfig struct {
	Input string `yaml:"input"`
	// Output defaults to <root>/artifacts/findings.jsonl when empty.
	Output        string `yaml:"output"`
	DedupBy       string `yaml:"dedup_by" validate:"omitempty,oneof=domain url"`
	WriteManifest bool   `yaml:"write_manifest"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"min=0"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Env:   DefaultEnv,
		Paths: Paths{Root: DefaultRoot},
		Discovery: DiscoveryConfig{
			DedupBy: DefaultDedupBy,
		},
		Logging: LoggingConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseConfig, err)
		}
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvAppEnv, &c.Env},
		{EnvRoot, &c.Paths.Root},
		{EnvInput, &c.Discovery.Input},
		{EnvOutput, &c.Discovery.Output},
		{EnvDedupBy, &c.Discovery.DedupBy},
		{EnvLogLevel, &c.Logging.Level},
		{EnvLogFile, &c.Logging.File},
	}

	for _, o := range overrides {
		if v := strings.TrimSpace(getenv(o.key)); v != "" {
			*o.dst = v
		}
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report yaml key names rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return v
}

// Validate checks the configuration. Failures wrap ErrInvalidConfig and
// name the offending keys.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s=%q fails %s=%s", key, fmt.Sprint(fe.Value()), fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s fails %s", key, fe.Tag()))
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// ArtifactsDir is where findings files are written by default.
func (p Paths) ArtifactsDir() string {
	return filepath.Join(p.Root, "artifacts")
}

// OutboxDir holds outgoing report drafts.
func (p Paths) OutboxDir() string {
	return filepath.Join(p.Root, ".outbox")
}

// RunsDir holds run manifests.
func (p Paths) RunsDir() string {
	return filepath.Join(p.Root, ".runs")
}

// Ensure creates the working directories under Root.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.ArtifactsDir(), p.OutboxDir(), p.RunsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return nil
}

// OutputPath returns the findings file path.
func (c *Config) OutputPath() string {
	if c.Discovery.Output != "" {
		return c.Discovery.Output
	}

	return filepath.Join(c.Paths.ArtifactsDir(), DefaultOutputName)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Env: %s, Root: %s, Output: %s, DedupBy: %s, LogLevel: %s}",
		c.Env,
		c.Paths.Root,
		c.OutputPath(),
		c.Discovery.DedupBy,
		c.Logging.Level,
	)
}

// Package config handles config file discovery and loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pulumi-compose/pulumi-compose/internal/convert"
	"github.com/pulumi-compose/pulumi-compose/internal/dapr"
	"github.com/pulumi-compose/pulumi-compose/internal/pulumi"
)

const (
	// FileName is the config file searched for from the working directory up.
	FileName = ".pulumi-compose.yaml"

	// EnvVar names a config file explicitly, overriding discovery.
	EnvVar = "PULUMI_COMPOSE_CONFIG"

	// APIVersionV1 is the current config API version.
	APIVersionV1 = "pulumi-compose.io/v1"

	// KindConfig identifies a config document.
	KindConfig = "Config"

	// DefaultOutput is the output path when neither flags nor config set one.
	DefaultOutput = "docker-compose.yml"
)

// SupportedAPIVersions lists all API versions that can be loaded.
var SupportedAPIVersions = []string{APIVersionV1}

// Validation errors.
var (
	// ErrUnsupportedAPIVersion indicates an unknown or unsupported API version.
	ErrUnsupportedAPIVersion = errors.New("unsupported API version")

	// ErrInvalidKind indicates the document is not a config.
	ErrInvalidKind = errors.New("invalid config kind")

	// ErrInvalidOnError indicates an unknown onError value.
	ErrInvalidOnError = errors.New("invalid onError value")
)

// Config holds conversion settings.
type Config struct {
	APIVersion string `yaml:"apiVersion,omitempty"`
	Kind       string `yaml:"kind,omitempty"`

	// OnError is "fail" (default) or "skip" for malformed container apps.
	OnError string `yaml:"onError,omitempty"`

	// Output is the compose file path, relative to the working directory.
	Output string `yaml:"output,omitempty"`

	Dapr dapr.Settings `yaml:"dapr,omitempty"`

	// Path is the file this config was loaded from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIVersion: APIVersionV1,
		Kind:       KindConfig,
		OnError:    pulumi.ModeFailFast.String(),
		Output:     DefaultOutput,
		Dapr:       dapr.DefaultSettings(),
	}
}

// FindFile searches upward from dir for FileName.
// Returns false if no config file exists in dir or any parent.
func FindFile(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Load resolves and loads the config. An explicit path wins, then the
// EnvVar path, then the nearest FileName above the working directory.
// Without any of those the defaults are returned.
func Load(explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvVar)
	}

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}

		found, ok := FindFile(wd)
		if !ok {
			return Default(), nil
		}
		path = found
	}

	return LoadFile(path)
}

// LoadFile loads and validates a config file. Unset fields take defaults.
func LoadFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.OnError == "" {
		cfg.OnError = pulumi.ModeFailFast.String()
	}
	cfg.Dapr = cfg.Dapr.WithDefaults()
	cfg.Path = path

	return &cfg, nil
}

// Validate checks the version header, onError, and dapr settings.
// Empty apiVersion and kind are accepted.
func (c *Config) Validate() error {
	if err := ValidateAPIVersion(c.APIVersion); err != nil {
		return err
	}

	if c.Kind != "" && c.Kind != KindConfig {
		return fmt.Errorf("%w: %s (expected %s)", ErrInvalidKind, c.Kind, KindConfig)
	}

	if _, ok := pulumi.ParseMode(c.OnError); !ok {
		return fmt.Errorf("%w: %q (use fail or skip)", ErrInvalidOnError, c.OnError)
	}

	return c.Dapr.WithDefaults().Validate()
}

// ValidateAPIVersion checks if the provided version is supported.
// Returns nil if the version is valid or empty.
func ValidateAPIVersion(version string) error {
	if version == "" {
		return nil
	}

	for _, supported := range SupportedAPIVersions {
		if version == supported {
			return nil
		}
	}

	return fmt.Errorf("%w: %s (supported: %v)", ErrUnsupportedAPIVersion, version, SupportedAPIVersions)
}

// Mode returns the extraction mode selected by OnError.
func (c *Config) Mode() pulumi.Mode {
	mode, _ := pulumi.ParseMode(c.OnError)
	return mode
}

// Options returns the conversion options described by the config.
func (c *Config) Options() convert.Options {
	return convert.Options{
		Mode: c.Mode(),
		Dapr: c.Dapr.WithDefaults(),
	}
}

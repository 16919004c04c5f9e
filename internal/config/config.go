package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/telveo/xj/internal/converter"
	"github.com/telveo/xj/internal/errors"
)

// Config holds the persistent configuration for xj. Values layer in
// precedence order: defaults, then config file, then XJ_-prefixed
// environment variables, then CLI flags (applied by the caller).
type Config struct {
	PreserveRoot         bool   `yaml:"preserve_root" env:"PRESERVE_ROOT"`
	PrettyPrint          bool   `yaml:"pretty_print" env:"PRETTY_PRINT"`
	StripNamespaces      bool   `yaml:"strip_namespaces" env:"STRIP_NAMESPACES"`
	PreserveMixedContent bool   `yaml:"preserve_mixed_content" env:"PRESERVE_MIXED_CONTENT"`
	EmptyElementsAsNull  bool   `yaml:"empty_elements_as_null" env:"EMPTY_ELEMENTS_AS_NULL"`
	KeyStyle             string `yaml:"key_style" env:"KEY_STYLE"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		PreserveRoot:         true,
		PrettyPrint:          true,
		PreserveMixedContent: true,
	}
}

// LoadConfig loads configuration from a YAML file, layered on defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in the current directory and
// its parents, nearest first.
func FindConfigFile() string {
	configNames := []string{".xj.yml", ".xj.yaml", "xj.yml", "xj.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// ApplyEnv overrides fields from XJ_-prefixed environment variables.
// Unset variables leave the current values untouched.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: "XJ_"}); err != nil {
		return errors.NewConfigError("failed to read environment overrides", err)
	}
	return c.Validate()
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if !converter.KeyStyle(c.KeyStyle).Valid() {
		return errors.NewConfigError(
			fmt.Sprintf("unknown key style '%s' (valid: snake, camel, pascal)", c.KeyStyle),
			nil,
		)
	}
	return nil
}

// Options returns the immutable conversion options for this configuration.
func (c *Config) Options() converter.Options {
	return converter.Options{
		PreserveRoot:         c.PreserveRoot,
		PrettyPrint:          c.PrettyPrint,
		StripNamespaces:      c.StripNamespaces,
		PreserveMixedContent: c.PreserveMixedContent,
		EmptyElementsAsNull:  c.EmptyElementsAsNull,
		KeyStyle:             converter.KeyStyle(c.KeyStyle),
	}
}

// Package config loads and validates the pipeline definition.
//
// DESIGN: All configuration comes from YAML files. The definition names the
// plugins by type identifier and hands each a raw option mapping; plugin
// option validation itself lives in internal/plugin and runs before the
// pipeline executes. This package only checks document structure.
//
// FILES:
//   - config.go: Root Config struct, Load(), Validate(), env expansion
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/elspeth-etl/elspeth/internal/telemetry"
)

// Config is the root pipeline definition.
type Config struct {
	Pipeline  PipelineConfig         `yaml:"pipeline"`  // Source, transforms, sinks
	Telemetry telemetry.Config       `yaml:"telemetry"` // Event emission settings
	Logging   telemetry.LoggerConfig `yaml:"logging"`   // Process log settings
}

// PipelineConfig names the plugin instances of one pipeline.
type PipelineConfig struct {
	Name       string      `yaml:"name"`       // Pipeline identifier for telemetry
	Source     PluginRef   `yaml:"source"`     // Exactly one source
	Transforms []PluginRef `yaml:"transforms"` // Applied in order; may be empty
	Sinks      []PluginRef `yaml:"sinks"`      // At least one
}

// PluginRef is one plugin instance in the definition: a type identifier plus
// the untyped option mapping handed to that type's config validator.
type PluginRef struct {
	Type    string         `yaml:"type"`
	Options map[string]any `yaml:"options,omitempty"`
}

// expandEnvWithDefaults expands environment variables with support for
// default values. Supports both ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultValue := ""
		if len(parts) > 2 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

// Load reads a pipeline definition from a YAML file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses a pipeline definition from raw YAML bytes.
// Supports ${VAR:-default} env var expansion and eager validation.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks document structure. Plugin options are validated
// separately by the engine against the registry, before any plugin runs.
func (c *Config) Validate() error {
	if c.Pipeline.Name == "" {
		return fmt.Errorf("pipeline.name is required")
	}
	if c.Pipeline.Source.Type == "" {
		return fmt.Errorf("pipeline.source.type is required")
	}
	for i, t := range c.Pipeline.Transforms {
		if t.Type == "" {
			return fmt.Errorf("pipeline.transforms[%d].type is required", i)
		}
	}
	if len(c.Pipeline.Sinks) == 0 {
		return fmt.Errorf("pipeline.sinks requires at least one sink")
	}
	for i, s := range c.Pipeline.Sinks {
		if s.Type == "" {
			return fmt.Errorf("pipeline.sinks[%d].type is required", i)
		}
	}

	// Granularity arrives through events.Granularity decoding and is already
	// vetted; an empty value means the key was omitted.
	if c.Telemetry.Granularity == "" {
		return fmt.Errorf("telemetry.granularity is required")
	}

	return nil
}

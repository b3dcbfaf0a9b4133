// Package plugin defines the plugin contracts and the configuration
// hierarchy shared by all plugin types.
//
// DESIGN: Configuration is a single-inheritance chain realized as struct
// embedding. Every concrete plugin config draws from exactly one path
// through it (the hierarchy is a tree, not a lattice):
//
//	Config                     optional schema reference
//	└── DataConfig             schema required (reads/writes structured records)
//	    ├── TransformConfig    adds on_error policy
//	    └── PathConfig         adds required path + ResolvedPath()
//	        └── SourceConfig   adds required on_validation_failure policy
//
// Concrete plugin configs embed one of these and add their own options.
// Construction is FromOptions (options.go): strict decode of the untyped
// mapping, declared defaults, eager Validate. Instances are immutable after
// construction.
//
// FILES:
//   - config.go:   The hierarchy and its Validate methods
//   - options.go:  FromOptions strict decoding
//   - errors.go:   ConfigError
//   - plugin.go:   Source/Transform/Sink contracts, Row, Env
//   - registry.go: Type identifier -> factory resolution, upfront validation
package plugin

import (
	"os"
	"path/filepath"
)

// =============================================================================
// POLICY CONSTANTS
// =============================================================================

// Error-handling policies for in-pipeline transforms.
const (
	OnErrorSkip    = "skip"    // Pass the record through untouched
	OnErrorFail    = "fail"    // Abort the run
	OnErrorDiscard = "discard" // Drop the record
)

// Validation-failure policies for sources.
const (
	OnValidationSkip       = "skip"       // Drop the malformed record, keep reading
	OnValidationFail       = "fail"       // Abort the run
	OnValidationQuarantine = "quarantine" // Divert the raw record to a side file
)

// =============================================================================
// BASE - optional schema reference
// =============================================================================

// Config is the root of the hierarchy. The schema reference names the record
// schema a plugin consumes or produces; plugins that never touch structured
// records may leave it empty.
type Config struct {
	Schema string `yaml:"schema,omitempty"` // Schema reference name
}

// Validate checks the base configuration. Always succeeds: the schema
// reference is optional at this level.
func (c *Config) Validate(pluginType string) error { return nil }

// =============================================================================
// DATA PLUGINS - schema required
// =============================================================================

// DataConfig refines Config for anything that reads or writes structured
// records: the schema reference becomes required.
type DataConfig struct {
	Config `yaml:",inline"`
}

// Validate requires a schema reference.
func (c *DataConfig) Validate(pluginType string) error {
	if c.Schema == "" {
		return configErr(pluginType, "schema", "required for data plugins")
	}
	return nil
}

// =============================================================================
// TRANSFORMS - error-handling policy
// =============================================================================

// TransformConfig refines DataConfig for in-pipeline transforms with an
// error-handling policy.
type TransformConfig struct {
	DataConfig `yaml:",inline"`
	OnError    string `yaml:"on_error,omitempty"` // skip | fail | discard (default: fail)
}

// ApplyDefaults fills the declared default policy.
func (c *TransformConfig) ApplyDefaults() {
	if c.OnError == "" {
		c.OnError = OnErrorFail
	}
}

// Validate checks the policy value on top of DataConfig.
func (c *TransformConfig) Validate(pluginType string) error {
	if err := c.DataConfig.Validate(pluginType); err != nil {
		return err
	}
	switch c.OnError {
	case OnErrorSkip, OnErrorFail, OnErrorDiscard:
		return nil
	default:
		return configErr(pluginType, "on_error", "must be 'skip', 'fail', or 'discard'")
	}
}

// =============================================================================
// FILE-BASED PLUGINS - path handling
// =============================================================================

// PathConfig refines DataConfig for file-based sources and sinks.
type PathConfig struct {
	DataConfig `yaml:",inline"`
	Path       string `yaml:"path"` // File path; ${VAR} expansion applied by ResolvedPath
}

// Validate requires a path on top of DataConfig.
func (c *PathConfig) Validate(pluginType string) error {
	if err := c.DataConfig.Validate(pluginType); err != nil {
		return err
	}
	if c.Path == "" {
		return configErr(pluginType, "path", "required")
	}
	return nil
}

// ResolvedPath returns the path with environment variables expanded, made
// absolute against the working directory.
func (c *PathConfig) ResolvedPath() string {
	p := os.ExpandEnv(c.Path)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// =============================================================================
// SOURCES - validation-failure policy
// =============================================================================

// SourceConfig refines PathConfig for sources, which must declare what
// happens to records that fail input validation.
type SourceConfig struct {
	PathConfig          `yaml:",inline"`
	OnValidationFailure string `yaml:"on_validation_failure"` // skip | fail | quarantine (required)
}

// Validate requires a validation-failure policy on top of PathConfig.
func (c *SourceConfig) Validate(pluginType string) error {
	if err := c.PathConfig.Validate(pluginType); err != nil {
		return err
	}
	switch c.OnValidationFailure {
	case OnValidationSkip, OnValidationFail, OnValidationQuarantine:
		return nil
	case "":
		return configErr(pluginType, "on_validation_failure", "required")
	default:
		return configErr(pluginType, "on_validation_failure", "must be 'skip', 'fail', or 'quarantine'")
	}
}

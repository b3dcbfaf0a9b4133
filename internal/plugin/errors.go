// ConfigError - the single error kind for plugin configuration failures.
package plugin

import "fmt"

// ConfigError reports a plugin configuration validation failure. It carries
// enough context for an operator to locate the offending entry in the
// pipeline definition. Validation failures always surface immediately; a
// misconfigured plugin must not run.
type ConfigError struct {
	PluginType string // Plugin type identifier, e.g. "csv"
	Field      string // Offending option name; empty when the failure is not field-specific
	Reason     string // Human-readable cause
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("plugin %q: invalid configuration: %s", e.PluginType, e.Reason)
	}
	return fmt.Sprintf("plugin %q: option %q: %s", e.PluginType, e.Field, e.Reason)
}

// configErr builds a field-level ConfigError.
func configErr(pluginType, field, reason string) *ConfigError {
	return &ConfigError{PluginType: pluginType, Field: field, Reason: reason}
}

// Options decoding - untyped mapping -> typed, validated configuration.
//
// DESIGN: The raw option mapping from the pipeline definition is re-encoded
// as YAML and decoded strictly into the concrete config struct, so the same
// parser that reads the pipeline definition enforces option types here.
// Unrecognized option keys are rejected: the point of upfront validation is
// to catch a typoed option before anything runs, not to ignore it.
package plugin

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// Spec is a configuration prototype: a pointer to a zero-value concrete
// config struct. A nil Spec is the explicit "no configuration" sentinel;
// validation is skipped for plugins that declare it.
type Spec interface {
	Validate(pluginType string) error
}

// Defaulter is implemented by configs that declare option defaults. Defaults
// are applied after decoding and before validation.
type Defaulter interface {
	ApplyDefaults()
}

// FromOptions populates cfg from the raw option mapping: strict decode,
// declared defaults, eager validation. All failures are *ConfigError.
// Semantically valid input is never mutated beyond declared defaults.
func FromOptions(pluginType string, raw map[string]any, cfg Spec) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return &ConfigError{PluginType: pluginType, Reason: "options are not encodable: " + err.Error()}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return &ConfigError{PluginType: pluginType, Reason: err.Error()}
	}

	if d, ok := cfg.(Defaulter); ok {
		d.ApplyDefaults()
	}

	return cfg.Validate(pluginType)
}

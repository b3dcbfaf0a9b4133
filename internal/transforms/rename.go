// Package transforms provides the built-in row transforms.
//
// DESIGN: Transforms process one row at a time and never mutate their input
// (rows are cloned before changes). Each transform applies its configured
// on_error policy to rows it cannot process. Transforms emit their own
// domain events (field resolution, gate decisions) through the run's
// Observer; the engine wraps each application with transform_completed.
//
// FILES:
//   - rename.go: Field-name normalization
//   - gate.go:   Field-equality predicate routing
package transforms

import (
	"context"

	"github.com/elspeth-etl/elspeth/internal/events"
	"github.com/elspeth-etl/elspeth/internal/plugin"
)

// TypeRename is the rename transform's type identifier.
const TypeRename = "rename"

// RenameConfig configures field-name normalization.
type RenameConfig struct {
	plugin.TransformConfig `yaml:",inline"`
	Fields                 map[string]string `yaml:"fields"`                          // original name -> normalized name
	NormalizationVersion   string            `yaml:"normalization_version,omitempty"` // Tag recorded on events (default: "v1")
}

// ApplyDefaults fills the declared defaults.
func (c *RenameConfig) ApplyDefaults() {
	c.TransformConfig.ApplyDefaults()
	if c.NormalizationVersion == "" {
		c.NormalizationVersion = "v1"
	}
}

// Validate checks rename-specific options on top of TransformConfig.
func (c *RenameConfig) Validate(pluginType string) error {
	if err := c.TransformConfig.Validate(pluginType); err != nil {
		return err
	}
	if len(c.Fields) == 0 {
		return &plugin.ConfigError{PluginType: pluginType, Field: "fields", Reason: "requires at least one mapping"}
	}
	for orig, norm := range c.Fields {
		if norm == "" {
			return &plugin.ConfigError{PluginType: pluginType, Field: "fields", Reason: "empty normalized name for " + orig}
		}
	}
	return nil
}

// RenameTransform renames fields per the configured mapping and reports each
// application as a field_resolution_applied event carrying the mapping that
// actually fired.
type RenameTransform struct {
	cfg RenameConfig
	env plugin.Env
}

// NewRenameTransform builds a rename transform from validated options.
func NewRenameTransform(options map[string]any, env plugin.Env) (*RenameTransform, error) {
	var cfg RenameConfig
	if err := plugin.FromOptions(TypeRename, options, &cfg); err != nil {
		return nil, err
	}
	return &RenameTransform{cfg: cfg, env: env}, nil
}

// Apply renames the fields present on the row. Rows with none of the
// configured fields pass through untouched without an event.
func (t *RenameTransform) Apply(ctx context.Context, row plugin.Row) (plugin.Row, error) {
	applied := make(map[string]string)
	for orig := range t.cfg.Fields {
		if _, ok := row[orig]; ok {
			applied[orig] = t.cfg.Fields[orig]
		}
	}
	if len(applied) == 0 {
		return row, nil
	}

	out := row.Clone()
	for orig, norm := range applied {
		out[norm] = out[orig]
		delete(out, orig)
	}

	t.env.Events.Record(events.FieldResolutionApplied{
		Meta:                 t.env.NewMeta(),
		SourcePlugin:         t.env.SourceType,
		FieldCount:           len(applied),
		NormalizationVersion: t.cfg.NormalizationVersion,
		ResolutionMapping:    applied,
	})

	return out, nil
}

// RenameFactory registers the rename transform.
func RenameFactory() plugin.TransformFactory {
	return plugin.TransformFactory{
		Type: TypeRename,
		Spec: func() plugin.Spec { return &RenameConfig{} },
		New: func(options map[string]any, env plugin.Env) (plugin.Transform, error) {
			return NewRenameTransform(options, env)
		},
	}
}

// Gate transform - field-equality predicate routing.
package transforms

import (
	"context"
	"fmt"

	"github.com/elspeth-etl/elspeth/internal/events"
	"github.com/elspeth-etl/elspeth/internal/plugin"
)

// TypeGate is the gate transform's type identifier.
const TypeGate = "gate"

// GateConfig configures the gate predicate.
type GateConfig struct {
	plugin.TransformConfig `yaml:",inline"`
	Field                  string `yaml:"field"`  // Field the predicate reads (required)
	Equals                 string `yaml:"equals"` // Value the field must match (required)
}

// Validate checks gate-specific options on top of TransformConfig.
func (c *GateConfig) Validate(pluginType string) error {
	if err := c.TransformConfig.Validate(pluginType); err != nil {
		return err
	}
	if c.Field == "" {
		return &plugin.ConfigError{PluginType: pluginType, Field: "field", Reason: "required"}
	}
	if c.Equals == "" {
		return &plugin.ConfigError{PluginType: pluginType, Field: "equals", Reason: "required"}
	}
	return nil
}

// GateTransform passes rows whose field equals the configured value and
// drops the rest. Rows missing the field are routed per on_error. Every
// predicate decision is reported as a gate_evaluated event.
type GateTransform struct {
	cfg GateConfig
	env plugin.Env
}

// NewGateTransform builds a gate transform from validated options.
func NewGateTransform(options map[string]any, env plugin.Env) (*GateTransform, error) {
	var cfg GateConfig
	if err := plugin.FromOptions(TypeGate, options, &cfg); err != nil {
		return nil, err
	}
	return &GateTransform{cfg: cfg, env: env}, nil
}

// Apply evaluates the predicate for one row.
func (t *GateTransform) Apply(ctx context.Context, row plugin.Row) (plugin.Row, error) {
	v, ok := row[t.cfg.Field]
	if !ok {
		switch t.cfg.OnError {
		case plugin.OnErrorFail:
			return nil, fmt.Errorf("gate: row has no field %q", t.cfg.Field)
		case plugin.OnErrorSkip:
			return row, nil
		default: // discard
			return nil, nil
		}
	}

	passed := fmt.Sprint(v) == t.cfg.Equals
	t.env.Events.Record(events.GateEvaluated{
		Meta:   t.env.NewMeta(),
		Field:  t.cfg.Field,
		Passed: passed,
	})

	if !passed {
		return nil, nil
	}
	return row, nil
}

// GateFactory registers the gate transform.
func GateFactory() plugin.TransformFactory {
	return plugin.TransformFactory{
		Type: TypeGate,
		Spec: func() plugin.Spec { return &GateConfig{} },
		New: func(options map[string]any, env plugin.Env) (plugin.Transform, error) {
			return NewGateTransform(options, env)
		},
	}
}

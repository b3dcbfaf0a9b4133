package transforms_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elspeth-etl/elspeth/internal/events"
	"github.com/elspeth-etl/elspeth/internal/plugin"
	"github.com/elspeth-etl/elspeth/internal/transforms"
)

func gateOptions(onError string) map[string]any {
	opts := map[string]any{
		"schema": "orders_v1",
		"field":  "status",
		"equals": "paid",
	}
	if onError != "" {
		opts["on_error"] = onError
	}
	return opts
}

func TestGateTransform_PassAndDrop(t *testing.T) {
	rec := &recorder{}
	gate, err := transforms.NewGateTransform(gateOptions(""), plugin.Env{RunID: "run-1", Events: rec})
	require.NoError(t, err)

	out, err := gate.Apply(context.Background(), plugin.Row{"status": "paid"})
	require.NoError(t, err)
	assert.NotNil(t, out)

	out, err = gate.Apply(context.Background(), plugin.Row{"status": "pending"})
	require.NoError(t, err)
	assert.Nil(t, out, "non-matching rows are dropped")

	require.Len(t, rec.events, 2)
	first := rec.events[0].(events.GateEvaluated)
	second := rec.events[1].(events.GateEvaluated)
	assert.True(t, first.Passed)
	assert.False(t, second.Passed)
	assert.Equal(t, "status", first.Field)
}

func TestGateTransform_MissingFieldPolicies(t *testing.T) {
	row := plugin.Row{"other": "x"}

	t.Run("fail (default)", func(t *testing.T) {
		gate, err := transforms.NewGateTransform(gateOptions(""), plugin.Env{Events: &recorder{}})
		require.NoError(t, err)

		_, err = gate.Apply(context.Background(), row)
		assert.Error(t, err)
	})

	t.Run("skip passes through", func(t *testing.T) {
		gate, err := transforms.NewGateTransform(gateOptions("skip"), plugin.Env{Events: &recorder{}})
		require.NoError(t, err)

		out, err := gate.Apply(context.Background(), row)
		require.NoError(t, err)
		assert.Equal(t, row, out)
	})

	t.Run("discard drops", func(t *testing.T) {
		gate, err := transforms.NewGateTransform(gateOptions("discard"), plugin.Env{Events: &recorder{}})
		require.NoError(t, err)

		out, err := gate.Apply(context.Background(), row)
		require.NoError(t, err)
		assert.Nil(t, out)
	})
}

func TestGateConfig_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"missing schema", func(m map[string]any) { delete(m, "schema") }, "schema"},
		{"missing field", func(m map[string]any) { delete(m, "field") }, "field"},
		{"missing equals", func(m map[string]any) { delete(m, "equals") }, "equals"},
		{"bad on_error", func(m map[string]any) { m["on_error"] = "retry" }, "on_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := gateOptions("")
			tt.mutate(opts)

			_, err := transforms.NewGateTransform(opts, plugin.Env{})
			var cfgErr *plugin.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elspeth-etl/elspeth/internal/config"
	"github.com/elspeth-etl/elspeth/internal/events"
)

const validYAML = `
pipeline:
  name: orders
  source:
    type: csv
    options:
      schema: orders_v1
      path: ${ELSPETH_INPUT:-data/orders.csv}
      on_validation_failure: skip
  transforms:
    - type: rename
      options:
        schema: orders_v1
        fields:
          "Customer ID": customer_id
  sinks:
    - type: jsonl
      options:
        schema: orders_v1
        path: out/orders.jsonl

telemetry:
  granularity: rows
  log_path: out/telemetry.jsonl

logging:
  level: info
`

func TestLoadFromBytes_Valid(t *testing.T) {
	cfg, err := config.LoadFromBytes([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "orders", cfg.Pipeline.Name)
	assert.Equal(t, "csv", cfg.Pipeline.Source.Type)
	assert.Equal(t, "data/orders.csv", cfg.Pipeline.Source.Options["path"],
		"env default applied when variable unset")
	assert.Len(t, cfg.Pipeline.Transforms, 1)
	assert.Len(t, cfg.Pipeline.Sinks, 1)
	assert.Equal(t, events.GranularityRows, cfg.Telemetry.Granularity)
}

func TestLoadFromBytes_EnvOverride(t *testing.T) {
	t.Setenv("ELSPETH_INPUT", "/mnt/import/orders.csv")

	cfg, err := config.LoadFromBytes([]byte(validYAML))
	require.NoError(t, err)
	assert.Equal(t, "/mnt/import/orders.csv", cfg.Pipeline.Source.Options["path"])
}

func TestLoadFromBytes_StructureErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "pipeline:\n  source: {type: csv}\n  sinks: [{type: jsonl}]\ntelemetry: {granularity: full}\n",
			wantErr: "pipeline.name",
		},
		{
			name:    "missing source type",
			yaml:    "pipeline:\n  name: p\n  sinks: [{type: jsonl}]\ntelemetry: {granularity: full}\n",
			wantErr: "pipeline.source.type",
		},
		{
			name:    "no sinks",
			yaml:    "pipeline:\n  name: p\n  source: {type: csv}\ntelemetry: {granularity: full}\n",
			wantErr: "at least one sink",
		},
		{
			name:    "missing granularity",
			yaml:    "pipeline:\n  name: p\n  source: {type: csv}\n  sinks: [{type: jsonl}]\n",
			wantErr: "telemetry.granularity",
		},
		{
			name:    "invalid granularity",
			yaml:    "pipeline:\n  name: p\n  source: {type: csv}\n  sinks: [{type: jsonl}]\ntelemetry: {granularity: verbose}\n",
			wantErr: "granularity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFromBytes([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("")
	assert.Error(t, err)

	_, err = config.Load("does/not/exist.yaml")
	assert.Error(t, err)
}

// Plugin contracts - sources, transforms, sinks.
package plugin

import (
	"context"

	"github.com/elspeth-etl/elspeth/internal/events"
)

// Row is one pipeline record: field name -> value.
type Row map[string]any

// Clone returns a shallow copy. Transforms copy before mutating so upstream
// holders never observe changes.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Observer receives telemetry events from plugins. The emitter in
// internal/telemetry implements it; tests substitute a recorder.
type Observer interface {
	Record(e events.Event)
}

// Env is the run-scoped environment handed to plugin constructors.
type Env struct {
	RunID      string   // Identifier of the current run
	SourceType string   // Type identifier of the pipeline's source
	Events     Observer // Telemetry destination; never nil during a run
}

// NewMeta stamps event metadata for this run.
func (e Env) NewMeta() events.Meta {
	return events.NewMeta(e.RunID)
}

// Source produces rows. Read calls emit for every record; a non-nil error
// from emit aborts the read.
type Source interface {
	Read(ctx context.Context, emit func(Row) error) error
}

// Transform processes one row. Returning (nil, nil) drops the row.
type Transform interface {
	Apply(ctx context.Context, row Row) (Row, error)
}

// Sink consumes rows. Close flushes and releases resources.
type Sink interface {
	Write(ctx context.Context, row Row) error
	Close() error
}

// Built-in plugin registration.
package engine

import (
	"github.com/elspeth-etl/elspeth/internal/plugin"
	"github.com/elspeth-etl/elspeth/internal/sinks"
	"github.com/elspeth-etl/elspeth/internal/sources"
	"github.com/elspeth-etl/elspeth/internal/transforms"
)

// DefaultRegistry returns a registry with all built-in plugins registered.
func DefaultRegistry() *plugin.Registry {
	r := plugin.NewRegistry()

	r.RegisterSource(sources.CSVFactory())
	r.RegisterSource(sources.JSONFactory())
	r.RegisterSource(sources.ResumeFactory())

	r.RegisterTransform(transforms.RenameFactory())
	r.RegisterTransform(transforms.GateFactory())

	r.RegisterSink(sinks.JSONLFactory())
	r.RegisterSink(sinks.SQLiteFactory())

	return r
}

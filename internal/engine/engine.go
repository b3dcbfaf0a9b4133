// Package engine validates and runs a pipeline definition.
//
// DESIGN: Two strictly separated phases:
//  1. Validate() vets every plugin instance's options against its registered
//     config type. Nothing is constructed; a misconfigured definition fails
//     before any plugin runs.
//  2. Run() constructs the plugins, streams rows source -> transforms ->
//     sinks, and emits lifecycle and row-level telemetry through the
//     emitter, which applies the granularity filter.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/elspeth-etl/elspeth/internal/config"
	"github.com/elspeth-etl/elspeth/internal/events"
	"github.com/elspeth-etl/elspeth/internal/plugin"
	"github.com/elspeth-etl/elspeth/internal/telemetry"
)

// Engine runs one pipeline definition.
type Engine struct {
	cfg     *config.Config
	reg     *plugin.Registry
	emitter *telemetry.Emitter
}

// Result summarizes a completed run.
type Result struct {
	RunID       string
	RowsRead    int
	RowsWritten int
	Duration    time.Duration
}

// New creates an engine for the given definition.
func New(cfg *config.Config, reg *plugin.Registry, emitter *telemetry.Emitter) *Engine {
	return &Engine{cfg: cfg, reg: reg, emitter: emitter}
}

// Validate checks every plugin instance's options upfront. Returns the first
// *plugin.ConfigError encountered, in definition order.
func (e *Engine) Validate() error {
	p := e.cfg.Pipeline
	if err := e.reg.ValidateOptions(plugin.RoleSource, p.Source.Type, p.Source.Options); err != nil {
		return err
	}
	for _, t := range p.Transforms {
		if err := e.reg.ValidateOptions(plugin.RoleTransform, t.Type, t.Options); err != nil {
			return err
		}
	}
	for _, s := range p.Sinks {
		if err := e.reg.ValidateOptions(plugin.RoleSink, s.Type, s.Options); err != nil {
			return err
		}
	}
	return nil
}

// Run executes the pipeline. The definition must already have passed
// Validate; construction errors here still surface as *plugin.ConfigError
// but indicate a registry/definition mismatch rather than operator error.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	p := e.cfg.Pipeline
	start := time.Now()

	env := plugin.Env{
		RunID:      uuid.NewString(),
		SourceType: p.Source.Type,
		Events:     e.emitter,
	}

	e.emitter.Record(events.RunStarted{
		Meta:        env.NewMeta(),
		Pipeline:    p.Name,
		Granularity: e.emitter.Granularity(),
	})

	res := &Result{RunID: env.RunID}
	runErr := e.run(ctx, env, res)
	res.Duration = time.Since(start)

	completed := events.RunCompleted{
		Meta:        env.NewMeta(),
		Pipeline:    p.Name,
		RowsRead:    res.RowsRead,
		RowsWritten: res.RowsWritten,
		DurationMs:  res.Duration.Milliseconds(),
		Success:     runErr == nil,
	}
	if runErr != nil {
		completed.Error = runErr.Error()
	}
	e.emitter.Record(completed)

	if runErr != nil {
		return res, runErr
	}
	return res, nil
}

// run builds the plugins and streams rows through them.
func (e *Engine) run(ctx context.Context, env plugin.Env, res *Result) error {
	p := e.cfg.Pipeline

	srcFactory, ok := e.reg.Source(p.Source.Type)
	if !ok {
		return &plugin.ConfigError{PluginType: p.Source.Type, Reason: "unknown source plugin type"}
	}
	source, err := srcFactory.New(p.Source.Options, env)
	if err != nil {
		return err
	}
	e.emitter.Record(events.PluginInitialized{
		Meta: env.NewMeta(), PluginType: p.Source.Type, Role: string(plugin.RoleSource),
	})

	transforms := make([]plugin.Transform, 0, len(p.Transforms))
	transformTypes := make([]string, 0, len(p.Transforms))
	for _, ref := range p.Transforms {
		f, ok := e.reg.Transform(ref.Type)
		if !ok {
			return &plugin.ConfigError{PluginType: ref.Type, Reason: "unknown transform plugin type"}
		}
		t, err := f.New(ref.Options, env)
		if err != nil {
			return err
		}
		transforms = append(transforms, t)
		transformTypes = append(transformTypes, ref.Type)
		e.emitter.Record(events.PluginInitialized{
			Meta: env.NewMeta(), PluginType: ref.Type, Role: string(plugin.RoleTransform),
		})
	}

	sinks := make([]plugin.Sink, 0, len(p.Sinks))
	for _, ref := range p.Sinks {
		f, ok := e.reg.Sink(ref.Type)
		if !ok {
			return &plugin.ConfigError{PluginType: ref.Type, Reason: "unknown sink plugin type"}
		}
		s, err := f.New(ref.Options, env)
		if err != nil {
			return err
		}
		sinks = append(sinks, s)
		e.emitter.Record(events.PluginInitialized{
			Meta: env.NewMeta(), PluginType: ref.Type, Role: string(plugin.RoleSink),
		})
	}
	defer func() {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				log.Error().Err(err).Msg("engine: closing sink")
			}
		}
	}()

	readErr := source.Read(ctx, func(row plugin.Row) error {
		res.RowsRead++
		e.emitter.Record(events.RowCreated{
			Meta:         env.NewMeta(),
			SourcePlugin: p.Source.Type,
			RowNumber:    res.RowsRead,
		})

		for i, t := range transforms {
			out, err := t.Apply(ctx, row)
			if err != nil {
				return fmt.Errorf("transform %s: %w", transformTypes[i], err)
			}
			outcome := "transformed"
			if out == nil {
				outcome = "discarded"
			}
			e.emitter.Record(events.TransformCompleted{
				Meta:      env.NewMeta(),
				Transform: transformTypes[i],
				Outcome:   outcome,
			})
			if out == nil {
				return nil // row dropped
			}
			row = out
		}

		for _, s := range sinks {
			if err := s.Write(ctx, row); err != nil {
				return fmt.Errorf("sink write: %w", err)
			}
		}
		res.RowsWritten++
		return nil
	})
	if readErr != nil {
		return readErr
	}
	return nil
}

// Registry - plugin type resolution and upfront option validation.
//
// DESIGN: Thread-safe maps of type identifier -> factory, one per role.
// Factories expose their config prototype separately from construction, so a
// whole pipeline definition can be vetted before any plugin is built or run.
package plugin

import (
	"sync"
)

// Role distinguishes the three plugin positions in a pipeline.
type Role string

const (
	RoleSource    Role = "source"
	RoleTransform Role = "transform"
	RoleSink      Role = "sink"
)

// SourceFactory builds sources of one type.
type SourceFactory struct {
	Type string
	// Spec returns a fresh config prototype, or nil for the no-configuration
	// sentinel (the resume source): validation is skipped, options ignored.
	Spec func() Spec
	New  func(options map[string]any, env Env) (Source, error)
}

// TransformFactory builds transforms of one type.
type TransformFactory struct {
	Type string
	Spec func() Spec
	New  func(options map[string]any, env Env) (Transform, error)
}

// SinkFactory builds sinks of one type.
type SinkFactory struct {
	Type string
	Spec func() Spec
	New  func(options map[string]any, env Env) (Sink, error)
}

// Registry resolves plugin type identifiers to factories.
type Registry struct {
	mu         sync.RWMutex
	sources    map[string]SourceFactory
	transforms map[string]TransformFactory
	sinks      map[string]SinkFactory
}

// NewRegistry creates an empty registry. Built-in plugins are registered by
// the engine package.
func NewRegistry() *Registry {
	return &Registry{
		sources:    make(map[string]SourceFactory),
		transforms: make(map[string]TransformFactory),
		sinks:      make(map[string]SinkFactory),
	}
}

// RegisterSource adds a source factory.
func (r *Registry) RegisterSource(f SourceFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[f.Type] = f
}

// RegisterTransform adds a transform factory.
func (r *Registry) RegisterTransform(f TransformFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[f.Type] = f
}

// RegisterSink adds a sink factory.
func (r *Registry) RegisterSink(f SinkFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[f.Type] = f
}

// Source returns the source factory for a type identifier.
func (r *Registry) Source(typ string) (SourceFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.sources[typ]
	return f, ok
}

// Transform returns the transform factory for a type identifier.
func (r *Registry) Transform(typ string) (TransformFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.transforms[typ]
	return f, ok
}

// Sink returns the sink factory for a type identifier.
func (r *Registry) Sink(typ string) (SinkFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.sinks[typ]
	return f, ok
}

// specFor resolves the config prototype for a role and type identifier.
// The boolean reports whether the type is registered at all.
func (r *Registry) specFor(role Role, typ string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch role {
	case RoleSource:
		if f, ok := r.sources[typ]; ok {
			return f.Spec(), true
		}
	case RoleTransform:
		if f, ok := r.transforms[typ]; ok {
			return f.Spec(), true
		}
	case RoleSink:
		if f, ok := r.sinks[typ]; ok {
			return f.Spec(), true
		}
	}
	return nil, false
}

// ValidateOptions validates a raw option mapping against the registered
// config type for (role, typ) without constructing the plugin. A plugin that
// declares no configuration passes regardless of the mapping.
func (r *Registry) ValidateOptions(role Role, typ string, raw map[string]any) error {
	spec, ok := r.specFor(role, typ)
	if !ok {
		return &ConfigError{PluginType: typ, Reason: "unknown " + string(role) + " plugin type"}
	}
	if spec == nil {
		// No-configuration sentinel: success by skip.
		return nil
	}
	return FromOptions(typ, raw, spec)
}

// Package events defines the telemetry event taxonomy for pipeline runs.
//
// DESIGN: Every event is a tagged variant: a struct embedding Meta and
// reporting its Kind. Events are immutable values; producers construct them,
// the telemetry emitter decides whether they leave the process (see
// ShouldEmit in filter.go). Classification lives here, next to the kind
// definitions, so adding an event kind and classifying it is one change in
// one file.
//
// TYPES:
//   - Kind:        Event type discriminator
//   - Class:       Emission class (lifecycle, row, unclassified)
//   - Meta:        Fields common to all events (timestamp, run ID)
//   - One struct per variant (RunStarted, RowCreated, ...)
package events

import "time"

// =============================================================================
// KINDS - Event type discriminators
// =============================================================================

// Kind identifies an event variant.
type Kind string

// Lifecycle kinds describe coarse run milestones, independent of any record.
const (
	KindRunStarted        Kind = "run_started"
	KindRunCompleted      Kind = "run_completed"
	KindPluginInitialized Kind = "plugin_initialized"
)

// Row-level kinds describe processing of an individual record or field.
const (
	KindRowCreated             Kind = "row_created"
	KindTransformCompleted     Kind = "transform_completed"
	KindGateEvaluated          Kind = "gate_evaluated"
	KindTokenCompleted         Kind = "token_completed"
	KindFieldResolutionApplied Kind = "field_resolution_applied"
)

// KindExternalCallCompleted reports a completed call to an external service.
// Intentionally unclassified: it takes the fail-open default in ShouldEmit.
const KindExternalCallCompleted Kind = "external_call_completed"

// Class is the emission class of a kind.
type Class int

const (
	ClassUnclassified Class = iota // Not explicitly classified; fail-open
	ClassLifecycle                 // Emitted at every granularity
	ClassRow                       // Emitted at rows and full only
)

// Class returns the emission class for this kind.
// Kinds not listed here are ClassUnclassified and fall through to the
// fail-open arm of ShouldEmit.
func (k Kind) Class() Class {
	switch k {
	case KindRunStarted, KindRunCompleted, KindPluginInitialized:
		return ClassLifecycle
	case KindRowCreated, KindTransformCompleted, KindGateEvaluated,
		KindTokenCompleted, KindFieldResolutionApplied:
		return ClassRow
	default:
		return ClassUnclassified
	}
}

// =============================================================================
// EVENT - Common shape
// =============================================================================

// Meta holds the fields every event carries.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
}

// EventMeta returns the embedded metadata. Satisfies the Event interface for
// every struct that embeds Meta.
func (m Meta) EventMeta() Meta { return m }

// NewMeta stamps metadata for an event emitted now.
func NewMeta(runID string) Meta {
	return Meta{Timestamp: time.Now().UTC(), RunID: runID}
}

// Event is the closed union of telemetry variants.
type Event interface {
	Kind() Kind
	EventMeta() Meta
}

// =============================================================================
// LIFECYCLE VARIANTS
// =============================================================================

// RunStarted marks the beginning of a pipeline run.
type RunStarted struct {
	Meta
	Pipeline    string      `json:"pipeline"`
	Granularity Granularity `json:"granularity"`
}

func (RunStarted) Kind() Kind { return KindRunStarted }

// RunCompleted marks the end of a pipeline run.
type RunCompleted struct {
	Meta
	Pipeline    string `json:"pipeline"`
	RowsRead    int    `json:"rows_read"`
	RowsWritten int    `json:"rows_written"`
	DurationMs  int64  `json:"duration_ms"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

func (RunCompleted) Kind() Kind { return KindRunCompleted }

// PluginInitialized marks a plugin instance passing construction.
type PluginInitialized struct {
	Meta
	PluginType string `json:"plugin_type"`
	Role       string `json:"role"` // source, transform, sink
}

func (PluginInitialized) Kind() Kind { return KindPluginInitialized }

// =============================================================================
// ROW-LEVEL VARIANTS
// =============================================================================

// RowCreated marks a record produced by the source.
type RowCreated struct {
	Meta
	SourcePlugin string `json:"source_plugin"`
	RowNumber    int    `json:"row_number"`
}

func (RowCreated) Kind() Kind { return KindRowCreated }

// TransformCompleted marks one transform finishing on one record.
type TransformCompleted struct {
	Meta
	Transform string `json:"transform"`
	Outcome   string `json:"outcome"` // transformed, skipped, discarded
}

func (TransformCompleted) Kind() Kind { return KindTransformCompleted }

// GateEvaluated reports a gate predicate decision for one record.
type GateEvaluated struct {
	Meta
	Field  string `json:"field"`
	Passed bool   `json:"passed"`
}

func (GateEvaluated) Kind() Kind { return KindGateEvaluated }

// TokenCompleted reports token accounting for one record's external
// processing. Counts come from the producer; this package does no counting.
type TokenCompleted struct {
	Meta
	Provider    string `json:"provider"`
	TokenCount  int    `json:"token_count"`
	TokenSource string `json:"token_source,omitempty"`
}

func (TokenCompleted) Kind() Kind { return KindTokenCompleted }

// FieldResolutionApplied reports field-name normalization on one record set.
type FieldResolutionApplied struct {
	Meta
	SourcePlugin         string            `json:"source_plugin"`
	FieldCount           int               `json:"field_count"`
	NormalizationVersion string            `json:"normalization_version"`
	ResolutionMapping    map[string]string `json:"resolution_mapping"`
}

func (FieldResolutionApplied) Kind() Kind { return KindFieldResolutionApplied }

// =============================================================================
// UNCLASSIFIED VARIANTS
// =============================================================================

// ExternalCallCompleted reports a finished call to an external collaborator.
type ExternalCallCompleted struct {
	Meta
	Target     string `json:"target"`
	StatusCode int    `json:"status_code"`
	DurationMs int64  `json:"duration_ms"`
}

func (ExternalCallCompleted) Kind() Kind { return KindExternalCallCompleted }

package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elspeth-etl/elspeth/internal/events"
)

// customEvent is a kind added after the filter was written: it exercises the
// fail-open default arm.
type customEvent struct {
	events.Meta
}

func (customEvent) Kind() events.Kind { return events.Kind("cache_flushed") }

func rowLevelEvents() map[string]events.Event {
	meta := events.NewMeta("run-1")
	return map[string]events.Event{
		"row_created":              events.RowCreated{Meta: meta, SourcePlugin: "csv", RowNumber: 1},
		"transform_completed":      events.TransformCompleted{Meta: meta, Transform: "rename", Outcome: "transformed"},
		"gate_evaluated":           events.GateEvaluated{Meta: meta, Field: "status", Passed: true},
		"token_completed":          events.TokenCompleted{Meta: meta, Provider: "azure", TokenCount: 42},
		"field_resolution_applied": events.FieldResolutionApplied{Meta: meta, SourcePlugin: "csv", FieldCount: 1},
	}
}

func lifecycleEvents() map[string]events.Event {
	meta := events.NewMeta("run-1")
	return map[string]events.Event{
		"run_started":        events.RunStarted{Meta: meta, Pipeline: "orders"},
		"run_completed":      events.RunCompleted{Meta: meta, Pipeline: "orders", Success: true},
		"plugin_initialized": events.PluginInitialized{Meta: meta, PluginType: "csv", Role: "source"},
	}
}

func TestShouldEmit_RowLevelSuppressedAtLifecycle(t *testing.T) {
	for name, ev := range rowLevelEvents() {
		t.Run(name, func(t *testing.T) {
			assert.False(t, events.ShouldEmit(ev, events.GranularityLifecycle))
		})
	}
}

func TestShouldEmit_RowLevelEmittedAtRowsAndFull(t *testing.T) {
	for name, ev := range rowLevelEvents() {
		t.Run(name, func(t *testing.T) {
			assert.True(t, events.ShouldEmit(ev, events.GranularityRows))
			assert.True(t, events.ShouldEmit(ev, events.GranularityFull))
		})
	}
}

func TestShouldEmit_LifecycleEmittedEverywhere(t *testing.T) {
	granularities := []events.Granularity{
		events.GranularityLifecycle,
		events.GranularityRows,
		events.GranularityFull,
	}
	for name, ev := range lifecycleEvents() {
		t.Run(name, func(t *testing.T) {
			for _, g := range granularities {
				assert.True(t, events.ShouldEmit(ev, g), "granularity %s", g)
			}
		})
	}
}

func TestShouldEmit_UnknownKindFailsOpen(t *testing.T) {
	ev := customEvent{Meta: events.NewMeta("run-1")}

	assert.Equal(t, events.ClassUnclassified, ev.Kind().Class())
	assert.True(t, events.ShouldEmit(ev, events.GranularityRows))
	assert.True(t, events.ShouldEmit(ev, events.GranularityFull))
	assert.False(t, events.ShouldEmit(ev, events.GranularityLifecycle),
		"lifecycle granularity shows only lifecycle-class signals")
}

func TestShouldEmit_ExternalCallIsUnclassified(t *testing.T) {
	ev := events.ExternalCallCompleted{Meta: events.NewMeta("run-1"), Target: "warehouse"}

	assert.True(t, events.ShouldEmit(ev, events.GranularityRows))
	assert.True(t, events.ShouldEmit(ev, events.GranularityFull))
	assert.False(t, events.ShouldEmit(ev, events.GranularityLifecycle))
}

func TestShouldEmit_FieldResolutionScenario(t *testing.T) {
	ev := events.FieldResolutionApplied{
		Meta:                 events.NewMeta("run-1"),
		SourcePlugin:         "csv",
		FieldCount:           2,
		NormalizationVersion: "v1",
		ResolutionMapping: map[string]string{
			"Customer ID":  "customer_id",
			"Order Amount": "order_amount",
		},
	}

	assert.False(t, events.ShouldEmit(ev, events.GranularityLifecycle))
	assert.True(t, events.ShouldEmit(ev, events.GranularityRows))
	assert.True(t, events.ShouldEmit(ev, events.GranularityFull))
}

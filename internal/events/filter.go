// Emission filter - the single decision point for telemetry granularity.
//
// DESIGN: Producers never decide visibility themselves; they hand every event
// to the emitter, which calls ShouldEmit once. Centralizing the policy here
// means changing what a granularity level shows never touches a call site
// that creates events.
package events

// ShouldEmit reports whether the event should reach emission sinks under the
// given granularity. Pure and allocation-free; called once per event on the
// hot path.
//
// Unclassified kinds fail open: they emit at rows and full rather than being
// silently dropped. They are still suppressed at lifecycle, which shows only
// lifecycle-class signals.
func ShouldEmit(e Event, g Granularity) bool {
	switch e.Kind().Class() {
	case ClassLifecycle:
		return true
	case ClassRow:
		return g == GranularityRows || g == GranularityFull
	default:
		return g == GranularityRows || g == GranularityFull
	}
}

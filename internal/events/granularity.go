// Granularity - the configured telemetry verbosity level.
package events

import "fmt"

// Granularity controls which telemetry events are emitted.
// Ordered by verbosity for row-scoped events: lifecycle < rows <= full.
type Granularity string

const (
	// GranularityLifecycle emits only coarse run milestones.
	GranularityLifecycle Granularity = "lifecycle"
	// GranularityRows adds per-record events.
	GranularityRows Granularity = "rows"
	// GranularityFull emits everything; superset of rows.
	GranularityFull Granularity = "full"
)

// ParseGranularity parses a granularity from configuration text.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityLifecycle, GranularityRows, GranularityFull:
		return Granularity(s), nil
	default:
		return "", fmt.Errorf("unknown telemetry granularity %q, must be 'lifecycle', 'rows', or 'full'", s)
	}
}

// String returns the configuration spelling.
func (g Granularity) String() string { return string(g) }

// UnmarshalYAML validates the value while decoding configuration.
func (g *Granularity) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseGranularity(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

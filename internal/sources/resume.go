// Resume source - no-op placeholder for resume-only runs.
package sources

import (
	"context"

	"github.com/elspeth-etl/elspeth/internal/plugin"
)

// TypeResume is the resume source's type identifier.
const TypeResume = "resume"

// ResumeSource produces no rows. It stands in for a source position when a
// run replays previously checkpointed state, which arrives through other
// machinery. It takes a raw option mapping and ignores it; it has no
// associated config type, so validation is skipped entirely.
type ResumeSource struct{}

// Read emits nothing.
func (ResumeSource) Read(ctx context.Context, emit func(plugin.Row) error) error {
	return nil
}

// ResumeFactory registers the resume source. The nil Spec is the
// no-configuration sentinel: the validator treats it as success-by-skip.
func ResumeFactory() plugin.SourceFactory {
	return plugin.SourceFactory{
		Type: TypeResume,
		Spec: func() plugin.Spec { return nil },
		New: func(options map[string]any, env plugin.Env) (plugin.Source, error) {
			return ResumeSource{}, nil
		},
	}
}

// Package sinks provides the built-in record sinks.
//
// DESIGN: Sinks receive fully transformed rows one at a time and own their
// output resource for the run (Close flushes and releases it).
//
// FILES:
//   - jsonl.go:  JSON-lines file output with deterministic key order
//   - sqlite.go: Rows into a SQLite table
package sinks

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/sjson"

	"github.com/elspeth-etl/elspeth/internal/plugin"
)

// TypeJSONL is the jsonl sink's type identifier.
const TypeJSONL = "jsonl"

// JSONLConfig configures the jsonl sink.
type JSONLConfig struct {
	plugin.PathConfig `yaml:",inline"`
}

// JSONLSink writes one JSON object per row. Keys are written in sorted order
// so output files diff cleanly between runs.
type JSONLSink struct {
	f  *os.File
	mu sync.Mutex
}

// NewJSONLSink builds a jsonl sink from validated options. The output file
// is truncated: a run's output replaces the previous run's.
func NewJSONLSink(options map[string]any, env plugin.Env) (*JSONLSink, error) {
	var cfg JSONLConfig
	if err := plugin.FromOptions(TypeJSONL, options, &cfg); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(cfg.ResolvedPath(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("jsonl sink: %w", err)
	}
	return &JSONLSink{f: f}, nil
}

// escapeKey guards sjson path syntax in field names.
func escapeKey(k string) string {
	k = strings.ReplaceAll(k, "\\", "\\\\")
	k = strings.ReplaceAll(k, ".", "\\.")
	k = strings.ReplaceAll(k, "*", "\\*")
	k = strings.ReplaceAll(k, "?", "\\?")
	return k
}

// Write appends one row as a JSON line.
func (s *JSONLSink) Write(ctx context.Context, row plugin.Row) error {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := []byte(`{}`)
	var err error
	for _, k := range keys {
		out, err = sjson.SetBytes(out, escapeKey(k), row[k])
		if err != nil {
			return fmt.Errorf("jsonl sink: field %q: %w", k, err)
		}
	}
	out = append(out, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.f.Write(out)
	return err
}

// Close flushes and closes the output file.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// JSONLFactory registers the jsonl sink.
func JSONLFactory() plugin.SinkFactory {
	return plugin.SinkFactory{
		Type: TypeJSONL,
		Spec: func() plugin.Spec { return &JSONLConfig{} },
		New: func(options map[string]any, env plugin.Env) (plugin.Sink, error) {
			return NewJSONLSink(options, env)
		},
	}
}

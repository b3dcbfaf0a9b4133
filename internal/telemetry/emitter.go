// Package telemetry - emitter.go records pipeline events.
//
// DESIGN: Emitter applies the granularity filter once per event, then fans
// out to the configured sinks:
//   - JSONL file (one envelope per line, appended immediately)
//   - stdout echo via zerolog (optional)
//   - SQLite table for queryable event history (optional)
//
// The filter decision is central here: producers hand every event to
// Record() and never reason about granularity themselves.
package telemetry

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/elspeth-etl/elspeth/internal/events"
)

// Config contains telemetry emission settings.
type Config struct {
	Granularity events.Granularity `yaml:"granularity"`           // lifecycle, rows, full
	LogPath     string             `yaml:"log_path"`              // JSONL event log; empty disables
	LogToStdout bool               `yaml:"log_to_stdout"`         // Echo emitted events via zerolog
	SQLitePath  string             `yaml:"sqlite_path,omitempty"` // SQLite event history; empty disables
}

// envelope is the JSONL wire shape: the kind tag beside the variant fields.
type envelope struct {
	Kind  events.Kind  `json:"kind"`
	Event events.Event `json:"event"`
}

// Emitter records events that pass the granularity filter.
type Emitter struct {
	cfg        Config
	logPath    string
	db         *sql.DB
	eventCount int
	mu         sync.Mutex
}

// NewEmitter creates an emitter and prepares its sinks.
func NewEmitter(cfg Config) (*Emitter, error) {
	e := &Emitter{cfg: cfg}

	if cfg.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0750); err != nil {
			return nil, err
		}
		e.logPath = cfg.LogPath
		if _, err := os.Stat(cfg.LogPath); os.IsNotExist(err) {
			if f, err := os.Create(cfg.LogPath); err == nil {
				f.Close()
			}
		}
	}

	if cfg.SQLitePath != "" {
		db, err := openEventStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		e.db = db
	}

	return e, nil
}

// appendJSONL appends a single JSON object as a line to the file.
func appendJSONL(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// Record emits the event to all configured sinks if the granularity filter
// admits it. Suppressed events cost one classification switch and nothing
// else.
func (e *Emitter) Record(ev events.Event) {
	if !events.ShouldEmit(ev, e.cfg.Granularity) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cfg.LogToStdout {
		meta := ev.EventMeta()
		runID := meta.RunID
		if len(runID) > 8 {
			runID = runID[:8]
		}
		log.Info().
			Str("run_id", runID).
			Str("kind", string(ev.Kind())).
			Msg("telemetry")
	}

	if e.logPath != "" {
		if err := appendJSONL(e.logPath, envelope{Kind: ev.Kind(), Event: ev}); err != nil {
			log.Error().Err(err).Str("path", e.logPath).Msg("telemetry: failed to write event")
		} else {
			e.eventCount++
		}
	}

	if e.db != nil {
		if err := insertEvent(e.db, ev); err != nil {
			log.Error().Err(err).Str("path", e.cfg.SQLitePath).Msg("telemetry: failed to store event")
		}
	}
}

// Granularity returns the configured emission level.
func (e *Emitter) Granularity() events.Granularity { return e.cfg.Granularity }

// Close flushes sinks and logs a session summary.
func (e *Emitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.logPath != "" && e.eventCount > 0 {
		log.Info().
			Str("path", e.logPath).
			Int("events", e.eventCount).
			Msg("telemetry: session complete")
	}

	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

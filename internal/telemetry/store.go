// Package telemetry - store.go persists emitted events to SQLite.
//
// DESIGN: One flat table, one row per emitted event, the variant payload
// kept as JSON. run_id and kind are indexed columns so a run's row-level
// events can be queried without parsing payloads.
package telemetry

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/elspeth-etl/elspeth/internal/events"
)

const eventSchema = `
CREATE TABLE IF NOT EXISTS events (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id  TEXT NOT NULL,
	kind    TEXT NOT NULL,
	ts      TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_run_kind ON events (run_id, kind);
`

// openEventStore opens (creating if needed) the SQLite event history.
func openEventStore(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(eventSchema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// insertEvent stores one emitted event.
func insertEvent(db *sql.DB, ev events.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	meta := ev.EventMeta()
	_, err = db.Exec(
		`INSERT INTO events (run_id, kind, ts, payload) VALUES (?, ?, ?, ?)`,
		meta.RunID,
		string(ev.Kind()),
		meta.Timestamp.UTC().Format(time.RFC3339Nano),
		string(payload),
	)
	return err
}

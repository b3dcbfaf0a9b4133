// SQLite sink.
package sinks

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/elspeth-etl/elspeth/internal/plugin"
)

// TypeSQLite is the sqlite sink's type identifier.
const TypeSQLite = "sqlite"

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteConfig configures the sqlite sink.
type SQLiteConfig struct {
	plugin.DataConfig `yaml:",inline"`
	DSN               string `yaml:"dsn"`             // SQLite DSN or file path (required)
	Table             string `yaml:"table,omitempty"` // Target table (default: "records")
}

// ApplyDefaults fills the declared defaults.
func (c *SQLiteConfig) ApplyDefaults() {
	if c.Table == "" {
		c.Table = "records"
	}
}

// Validate checks sqlite-specific options on top of DataConfig.
func (c *SQLiteConfig) Validate(pluginType string) error {
	if err := c.DataConfig.Validate(pluginType); err != nil {
		return err
	}
	if c.DSN == "" {
		return &plugin.ConfigError{PluginType: pluginType, Field: "dsn", Reason: "required"}
	}
	if !tableNameRe.MatchString(c.Table) {
		return &plugin.ConfigError{PluginType: pluginType, Field: "table", Reason: "must be a valid identifier"}
	}
	return nil
}

// SQLiteSink writes each row as one record, the full row kept as JSON
// alongside the run identifier for later inspection.
type SQLiteSink struct {
	db    *sql.DB
	table string
	runID string
}

// NewSQLiteSink builds a sqlite sink from validated options, opening the
// database and creating the target table if needed.
func NewSQLiteSink(options map[string]any, env plugin.Env) (*SQLiteSink, error) {
	var cfg SQLiteConfig
	if err := plugin.FromOptions(TypeSQLite, options, &cfg); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite sink: %w", err)
	}

	// Table name is validated against an identifier pattern; it cannot be a
	// bind parameter in DDL.
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		data   TEXT NOT NULL
	)`, cfg.Table)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite sink: creating table %s: %w", cfg.Table, err)
	}

	return &SQLiteSink{db: db, table: cfg.Table, runID: env.RunID}, nil
}

// Write inserts one row.
func (s *SQLiteSink) Write(ctx context.Context, row plugin.Row) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("sqlite sink: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (run_id, data) VALUES (?, ?)`, s.table),
		s.runID, string(data))
	return err
}

// Close releases the database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// SQLiteFactory registers the sqlite sink.
func SQLiteFactory() plugin.SinkFactory {
	return plugin.SinkFactory{
		Type: TypeSQLite,
		Spec: func() plugin.Spec { return &SQLiteConfig{} },
		New: func(options map[string]any, env plugin.Env) (plugin.Sink, error) {
			return NewSQLiteSink(options, env)
		},
	}
}

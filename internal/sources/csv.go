// Package sources provides the built-in record sources.
//
// DESIGN: Each source decodes its input into plugin.Row values and applies
// its configured on_validation_failure policy to records that fail input
// validation. Sources stay quiet in telemetry terms: per-row events are
// emitted by the engine, which owns row numbering.
//
// FILES:
//   - csv.go:    Delimited text files, header row names the fields
//   - json.go:   JSON-lines files, field extraction via gjson
//   - resume.go: No-op source for resume-only runs; takes no configuration
package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/elspeth-etl/elspeth/internal/plugin"
)

// TypeCSV is the csv source's type identifier.
const TypeCSV = "csv"

// CSVConfig configures the csv source.
type CSVConfig struct {
	plugin.SourceConfig `yaml:",inline"`
	Delimiter           string `yaml:"delimiter,omitempty"` // Single character (default: ",")
}

// ApplyDefaults fills the declared defaults.
func (c *CSVConfig) ApplyDefaults() {
	if c.Delimiter == "" {
		c.Delimiter = ","
	}
}

// Validate checks csv-specific options on top of SourceConfig.
func (c *CSVConfig) Validate(pluginType string) error {
	if err := c.SourceConfig.Validate(pluginType); err != nil {
		return err
	}
	if len([]rune(c.Delimiter)) != 1 {
		return &plugin.ConfigError{PluginType: pluginType, Field: "delimiter", Reason: "must be a single character"}
	}
	return nil
}

// CSVSource reads rows from a delimited text file. The first record is the
// header and names the fields.
type CSVSource struct {
	cfg CSVConfig
	env plugin.Env
}

// NewCSVSource builds a csv source from validated options.
func NewCSVSource(options map[string]any, env plugin.Env) (*CSVSource, error) {
	var cfg CSVConfig
	if err := plugin.FromOptions(TypeCSV, options, &cfg); err != nil {
		return nil, err
	}
	return &CSVSource{cfg: cfg, env: env}, nil
}

// Read streams rows to emit. Records whose field count differs from the
// header are handled per on_validation_failure.
func (s *CSVSource) Read(ctx context.Context, emit func(plugin.Row) error) error {
	path := s.cfg.ResolvedPath()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("csv source: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = []rune(s.cfg.Delimiter)[0]
	r.FieldsPerRecord = -1 // ragged records are a policy decision, not a parse error

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil // empty file, nothing to read
		}
		return fmt.Errorf("csv source: reading header: %w", err)
	}

	var quarantine *os.File
	defer func() {
		if quarantine != nil {
			quarantine.Close()
		}
	}()

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("csv source: line %d: %w", line+1, err)
		}
		line++

		if len(record) != len(header) {
			switch s.cfg.OnValidationFailure {
			case plugin.OnValidationFail:
				return fmt.Errorf("csv source: line %d: %d fields, header has %d", line, len(record), len(header))
			case plugin.OnValidationSkip:
				log.Warn().Int("line", line).Int("fields", len(record)).Int("expected", len(header)).Msg("csv source: skipping malformed record")
				continue
			case plugin.OnValidationQuarantine:
				if quarantine == nil {
					quarantine, err = os.OpenFile(path+".quarantine", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
					if err != nil {
						return fmt.Errorf("csv source: opening quarantine file: %w", err)
					}
				}
				if _, err := quarantine.WriteString(strings.Join(record, s.cfg.Delimiter) + "\n"); err != nil {
					return fmt.Errorf("csv source: writing quarantine record: %w", err)
				}
				continue
			}
		}

		row := make(plugin.Row, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		if err := emit(row); err != nil {
			return err
		}
	}
}

// CSVFactory registers the csv source.
func CSVFactory() plugin.SourceFactory {
	return plugin.SourceFactory{
		Type: TypeCSV,
		Spec: func() plugin.Spec { return &CSVConfig{} },
		New: func(options map[string]any, env plugin.Env) (plugin.Source, error) {
			return NewCSVSource(options, env)
		},
	}
}

// JSON-lines source.
package sources

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/elspeth-etl/elspeth/internal/plugin"
)

// TypeJSON is the json source's type identifier.
const TypeJSON = "json"

// JSONConfig configures the json source.
type JSONConfig struct {
	plugin.SourceConfig `yaml:",inline"`
}

// JSONSource reads one JSON object per line. Lines that are not valid JSON
// objects are handled per on_validation_failure.
type JSONSource struct {
	cfg JSONConfig
	env plugin.Env
}

// NewJSONSource builds a json source from validated options.
func NewJSONSource(options map[string]any, env plugin.Env) (*JSONSource, error) {
	var cfg JSONConfig
	if err := plugin.FromOptions(TypeJSON, options, &cfg); err != nil {
		return nil, err
	}
	return &JSONSource{cfg: cfg, env: env}, nil
}

// Read streams rows to emit.
func (s *JSONSource) Read(ctx context.Context, emit func(plugin.Row) error) error {
	path := s.cfg.ResolvedPath()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("json source: %w", err)
	}
	defer f.Close()

	var quarantine *os.File
	defer func() {
		if quarantine != nil {
			quarantine.Close()
		}
	}()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		parsed := gjson.Parse(text)
		if !gjson.Valid(text) || !parsed.IsObject() {
			switch s.cfg.OnValidationFailure {
			case plugin.OnValidationFail:
				return fmt.Errorf("json source: line %d: not a JSON object", line)
			case plugin.OnValidationSkip:
				log.Warn().Int("line", line).Msg("json source: skipping malformed record")
				continue
			case plugin.OnValidationQuarantine:
				if quarantine == nil {
					quarantine, err = os.OpenFile(path+".quarantine", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
					if err != nil {
						return fmt.Errorf("json source: opening quarantine file: %w", err)
					}
				}
				if _, err := quarantine.WriteString(text + "\n"); err != nil {
					return fmt.Errorf("json source: writing quarantine record: %w", err)
				}
				continue
			}
		}

		row := plugin.Row{}
		parsed.ForEach(func(key, value gjson.Result) bool {
			row[key.String()] = value.Value()
			return true
		})
		if err := emit(row); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// JSONFactory registers the json source.
func JSONFactory() plugin.SourceFactory {
	return plugin.SourceFactory{
		Type: TypeJSON,
		Spec: func() plugin.Spec { return &JSONConfig{} },
		New: func(options map[string]any, env plugin.Env) (plugin.Source, error) {
			return NewJSONSource(options, env)
		},
	}
}

package sources_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elspeth-etl/elspeth/internal/plugin"
	"github.com/elspeth-etl/elspeth/internal/sources"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func readAll(t *testing.T, src plugin.Source) []plugin.Row {
	t.Helper()
	var rows []plugin.Row
	require.NoError(t, src.Read(context.Background(), func(r plugin.Row) error {
		rows = append(rows, r)
		return nil
	}))
	return rows
}

func csvOptions(path, policy string) map[string]any {
	return map[string]any{
		"schema":                "orders_v1",
		"path":                  path,
		"on_validation_failure": policy,
	}
}

func TestCSVSource_ReadsRows(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.csv", "id,name\n1,ada\n2,grace\n")

	src, err := sources.NewCSVSource(csvOptions(path, "fail"), plugin.Env{})
	require.NoError(t, err)

	rows := readAll(t, src)
	require.Len(t, rows, 2)
	assert.Equal(t, plugin.Row{"id": "1", "name": "ada"}, rows[0])
	assert.Equal(t, plugin.Row{"id": "2", "name": "grace"}, rows[1])
}

func TestCSVSource_CustomDelimiter(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.csv", "id|name\n1|ada\n")

	opts := csvOptions(path, "fail")
	opts["delimiter"] = "|"
	src, err := sources.NewCSVSource(opts, plugin.Env{})
	require.NoError(t, err)

	rows := readAll(t, src)
	require.Len(t, rows, 1)
	assert.Equal(t, "ada", rows[0]["name"])
}

func TestCSVSource_RaggedRecordPolicies(t *testing.T) {
	const content = "id,name\n1,ada\n2\n3,grace\n"

	t.Run("skip", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "in.csv", content)
		src, err := sources.NewCSVSource(csvOptions(path, "skip"), plugin.Env{})
		require.NoError(t, err)

		rows := readAll(t, src)
		assert.Len(t, rows, 2)
	})

	t.Run("fail", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "in.csv", content)
		src, err := sources.NewCSVSource(csvOptions(path, "fail"), plugin.Env{})
		require.NoError(t, err)

		err = src.Read(context.Background(), func(plugin.Row) error { return nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 3")
	})

	t.Run("quarantine", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "in.csv", content)
		src, err := sources.NewCSVSource(csvOptions(path, "quarantine"), plugin.Env{})
		require.NoError(t, err)

		rows := readAll(t, src)
		assert.Len(t, rows, 2)

		side, err := os.ReadFile(path + ".quarantine")
		require.NoError(t, err)
		assert.Equal(t, "2\n", string(side))
	})
}

func TestCSVSource_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "in.csv", "")

	src, err := sources.NewCSVSource(csvOptions(path, "fail"), plugin.Env{})
	require.NoError(t, err)
	assert.Empty(t, readAll(t, src))
}

func TestCSVSource_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"missing schema", func(m map[string]any) { delete(m, "schema") }, "schema"},
		{"missing path", func(m map[string]any) { delete(m, "path") }, "path"},
		{"missing policy", func(m map[string]any) { delete(m, "on_validation_failure") }, "on_validation_failure"},
		{"multi-char delimiter", func(m map[string]any) { m["delimiter"] = "||" }, "delimiter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := csvOptions("in.csv", "skip")
			tt.mutate(opts)

			_, err := sources.NewCSVSource(opts, plugin.Env{})
			var cfgErr *plugin.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

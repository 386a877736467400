// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cisbench/internal/catalog"
	"github.com/pdiddy/cisbench/internal/convert"
	"github.com/pdiddy/cisbench/internal/pdftext"
	"github.com/pdiddy/cisbench/internal/toc"
	"github.com/pdiddy/cisbench/pkg/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: exitOK},
		{name: "usage", err: errors.New("accepts 2 arg(s), received 1"), want: exitUsage},
		{name: "missing pdf", err: fmt.Errorf("opening x.pdf: %w", pdftext.ErrSourceAccess), want: exitSource},
		{name: "corrupt pdf", err: fmt.Errorf("reading: %w", pdftext.ErrFormat), want: exitSource},
		{name: "no toc", err: fmt.Errorf("%w: %w", convert.ErrNoControls, toc.ErrNotFound), want: exitNoControls},
		{name: "unwritable output", err: fmt.Errorf("%w: permission denied", convert.ErrDestinationWrite), want: exitDestination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger("warn", &buf)
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("could not find table of contents", "pdf", "x.pdf")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "could not find table of contents")

	_, err = newLogger("loud", &buf)
	assert.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("backend", "pdftotext")
	viper.Set("validate", false)
	viper.Set("format", "yaml")
	viper.Set("indent", 2)
	viper.Set("catalog", "db/cis.db")

	cfg := parseConfig("out")
	assert.Equal(t, types.BackendPdftotext, cfg.Extraction.Backend)
	assert.False(t, cfg.Extraction.Validate)
	assert.Equal(t, types.OutputConfig{Dir: "out", Format: types.OutputYAML, Indent: 2}, cfg.Output)
	assert.Equal(t, "db/cis.db", cfg.CatalogPath)
	require.NoError(t, cfg.Validate())
}

func TestNewPipelineRejectsBadConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("backend", "ocr")
	viper.Set("format", "json")

	_, err := newPipeline("out")
	assert.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestExpandPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	got, err := expandPDFs([]string{dir, "missing.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.PDF"),
		filepath.Join(dir, "b.pdf"),
		"missing.pdf",
	}, got)
}

func TestFormatHits(t *testing.T) {
	hits := []catalog.Hit{{
		Benchmark: "CIS_Ubuntu",
		Record:    types.ControlRecord{ControlEntry: types.ControlEntry{ID: "1.1.1", Title: "Ensure cramfs is disabled"}},
	}}

	var table bytes.Buffer
	require.NoError(t, formatHits(&table, hits, false))
	assert.Contains(t, table.String(), "1.1.1")
	assert.Contains(t, table.String(), "1 results")

	var js bytes.Buffer
	require.NoError(t, formatHits(&js, hits, true))
	assert.Contains(t, js.String(), `"benchmark": "CIS_Ubuntu"`)

	var empty bytes.Buffer
	require.NoError(t, formatHits(&empty, nil, true))
	assert.Equal(t, "[]\n", empty.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestBatchErrorExitCode(t *testing.T) {
	tests := []struct {
		name   string
		result convert.BatchResult
		want   int
	}{
		{
			name: "unreadable pdf",
			result: convert.BatchResult{Parsed: 1, Failed: 1, Failures: []error{
				fmt.Errorf("b.pdf: %w", pdftext.ErrSourceAccess),
			}},
			want: exitSource,
		},
		{
			name: "unwritable output first",
			result: convert.BatchResult{Failed: 2, Failures: []error{
				fmt.Errorf("a.pdf: %w", convert.ErrDestinationWrite),
				fmt.Errorf("b.pdf: %w", pdftext.ErrFormat),
			}},
			want: exitDestination,
		},
		{
			name:   "no recorded failure",
			result: convert.BatchResult{Failed: 1},
			want:   exitUsage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := batchError(tt.result)
			require.Error(t, err)
			assert.Equal(t, tt.want, exitCode(err))
		})
	}
}

func TestRunBatchMissingPDFExitsWithSourceError(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("backend", "native")
	viper.Set("format", "json")
	viper.Set("indent", 4)
	viper.Set("validate", false)
	viper.Set("quiet", true)

	out := t.TempDir()
	var stdout bytes.Buffer
	batchCmd.SetOut(&stdout)
	t.Cleanup(func() { batchCmd.SetOut(nil) })

	err := runBatch(batchCmd, []string{out, filepath.Join(out, "missing.pdf")})
	require.Error(t, err)
	assert.Equal(t, exitSource, exitCode(err))
	assert.Contains(t, stdout.String(), "failed:")
}

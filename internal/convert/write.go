// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cisbench/pkg/types"
)

// OutputPath returns <dir>/<benchmark id><extension>.
func OutputPath(b types.Benchmark, out types.OutputConfig) string {
	format := out.Format
	if format == "" {
		format = types.OutputJSON
	}
	return filepath.Join(out.Dir, b.ID+format.Extension())
}

// WriteBenchmark serializes b.Records to OutputPath, overwriting any existing
// file. The output folder must already exist. Errors wrap
// ErrDestinationWrite.
func WriteBenchmark(b types.Benchmark, out types.OutputConfig) (string, error) {
	info, err := os.Stat(out.Dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrDestinationWrite, out.Dir)
	}

	records := b.Records
	if records == nil {
		records = []types.ControlRecord{}
	}

	var data []byte
	switch out.Format {
	case types.OutputJSON, "":
		data, err = MarshalJSON(records, out.Indent)
	case types.OutputYAML:
		data, err = MarshalYAML(records, out.Indent)
	default:
		err = fmt.Errorf("unsupported format %q", out.Format)
	}
	if err != nil {
		return "", err
	}

	path := OutputPath(b, out)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}
	return path, nil
}

// MarshalJSON encodes records as an indented JSON array, leaving non-ASCII
// and HTML characters unescaped. The output has no trailing newline.
func MarshalJSON(records []types.ControlRecord, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", max(indent, 0)))
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalYAML encodes records as a YAML sequence of mappings.
func MarshalYAML(records []types.ControlRecord, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	return buf.Bytes(), nil
}

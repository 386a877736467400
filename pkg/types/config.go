// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ExtractionBackend identifies the PDF-to-text tool.
type ExtractionBackend string

const (
	BackendNative    ExtractionBackend = "native"
	BackendPdftotext ExtractionBackend = "pdftotext"
)

// OutputFormat selects the serialization of the parsed benchmark.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// Extension returns the file extension written for the format.
func (f OutputFormat) Extension() string {
	return "." + string(f)
}

// ExtractionConfig holds settings for reading text out of a PDF.
type ExtractionConfig struct {
	// Backend selects the text extractor: native or pdftotext.
	Backend ExtractionBackend `json:"backend" yaml:"backend"`

	// Validate runs a structural preflight on the PDF before extracting text.
	Validate bool `json:"validate" yaml:"validate"`
}

// OutputConfig holds settings for writing parsed records.
type OutputConfig struct {
	// Dir is the existing directory that receives <basename>.<format>.
	Dir string `json:"dir" yaml:"dir"`

	// Format selects json or yaml.
	Format OutputFormat `json:"format" yaml:"format"`

	// Indent is the number of spaces per indentation level (default 4).
	Indent int `json:"indent" yaml:"indent"`
}

// ParseConfig groups all settings for a single benchmark parse.
type ParseConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Output     OutputConfig     `json:"output" yaml:"output"`

	// SectionsFile optionally replaces the default section patterns.
	SectionsFile string `json:"sections_file,omitempty" yaml:"sections_file,omitempty"`

	// CatalogPath optionally names a SQLite catalog that receives the records.
	CatalogPath string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
}

// DefaultParseConfig returns the settings used when nothing is configured.
func DefaultParseConfig() ParseConfig {
	return ParseConfig{
		Extraction: ExtractionConfig{
			Backend:  BackendNative,
			Validate: true,
		},
		Output: OutputConfig{
			Format: OutputJSON,
			Indent: 4,
		},
	}
}

// Validate checks that enumerated settings hold known values.
func (c ParseConfig) Validate() error {
	switch c.Extraction.Backend {
	case BackendNative, BackendPdftotext:
	default:
		return fmt.Errorf("unknown backend %q: use native or pdftotext", c.Extraction.Backend)
	}
	switch c.Output.Format {
	case OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", c.Output.Format)
	}
	if c.Output.Indent < 0 {
		return errors.New("indent must not be negative")
	}
	if c.Output.Dir == "" {
		return errors.New("output folder is required")
	}
	return nil
}

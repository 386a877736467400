// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the cisbench pipeline:
// table-of-contents entries, extracted control details, the merged records
// written to disk, and the configuration for a parse.
package types

import (
	"path/filepath"
	"strings"
)

// ParseStatus indicates the outcome of parsing one benchmark PDF.
type ParseStatus string

const (
	ParseDone       ParseStatus = "parsed"
	ParseNoControls ParseStatus = "no_controls"
	ParseFailed     ParseStatus = "failed"
)

// Benchmark identifies a source PDF and the records parsed from it.
type Benchmark struct {
	// ID is the PDF file name without its extension. It names the output file.
	ID string `json:"id" yaml:"id"`

	// PDFPath is the local filesystem path of the source PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Records holds one merged record per table-of-contents entry.
	Records []ControlRecord `json:"records" yaml:"records"`

	// Status tracks whether parsing produced output.
	Status ParseStatus `json:"status" yaml:"status"`
}

// BenchmarkID derives a benchmark ID from a PDF path.
func BenchmarkID(pdfPath string) string {
	base := filepath.Base(pdfPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

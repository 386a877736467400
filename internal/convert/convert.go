// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the benchmark pipeline: PDF text extraction, table of
// contents parsing, per-control detail extraction, merging, and writing the
// records to <output>/<pdf basename>.json.
package convert

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/cisbench/internal/pdftext"
	"github.com/pdiddy/cisbench/internal/sections"
	"github.com/pdiddy/cisbench/internal/toc"
	"github.com/pdiddy/cisbench/pkg/types"
)

var (
	// ErrNoControls reports that the table of contents yielded no controls.
	// Nothing is written in that case.
	ErrNoControls = errors.New("no controls found")

	// ErrDestinationWrite reports an output folder that is missing or not
	// writable.
	ErrDestinationWrite = errors.New("cannot write output")
)

// Options tunes a pipeline run. The zero value uses the default sections,
// skips preflight validation, and discards logs and progress.
type Options struct {
	// Sections replaces the default section set when non-nil.
	Sections *sections.Set

	// Validate runs the pdfcpu structural check before extracting text.
	Validate bool

	// Logger receives stage-boundary diagnostics.
	Logger *slog.Logger

	// Progress receives the cosmetic per-page reading indicator.
	Progress io.Writer
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseBenchmark extracts the text of the PDF at pdfPath and builds one
// record per table-of-contents entry. Extraction failures are returned as
// pdftext.ErrSourceAccess or pdftext.ErrFormat. When no controls are found
// the returned benchmark has status ParseNoControls and the error wraps
// ErrNoControls.
func ParseBenchmark(e pdftext.Extractor, pdfPath string, opts Options) (types.Benchmark, error) {
	log := opts.logger()
	b := types.Benchmark{ID: types.BenchmarkID(pdfPath), PDFPath: pdfPath}

	log.Info("starting CIS PDF parsing", "pdf", pdfPath, "backend", e.Name())

	if opts.Validate {
		info, err := pdftext.Validate(pdfPath)
		if err != nil {
			b.Status = types.ParseFailed
			return b, err
		}
		log.Debug("preflight passed", "pages", info.PageCount)
	}

	log.Info("reading PDF", "pdf", pdfPath)
	text, err := pdftext.Text(e, pdfPath, opts.Progress)
	if err != nil {
		b.Status = types.ParseFailed
		return b, err
	}

	contents, err := toc.Parse(text)
	if err != nil {
		log.Warn("could not find table of contents", "pdf", pdfPath)
		b.Status = types.ParseNoControls
		return b, fmt.Errorf("%w: %w", ErrNoControls, err)
	}
	log.Info("found CIS entries", "count", contents.Len(), "categories", len(contents.Categories))
	if contents.IsEmpty() {
		b.Status = types.ParseNoControls
		return b, ErrNoControls
	}

	extractor := sections.NewExtractor(text, opts.Sections)
	if !extractor.HasAppendix() {
		log.Warn("appendix not found; records will hold id and title only", "pdf", pdfPath)
	}

	b.Records = BuildRecords(contents, extractor, log)
	b.Status = types.ParseDone
	return b, nil
}

// BuildRecords walks the table of contents in order, extracts each control's
// details bounded by the next control's ID, and merges them with the entry.
func BuildRecords(contents types.TableOfContents, extractor *sections.Extractor, log *slog.Logger) []types.ControlRecord {
	steps := Traverse(contents)
	records := make([]types.ControlRecord, len(steps))
	for i, step := range steps {
		details := extractor.Details(step.Entry.ID, step.NextID)
		if log != nil {
			log.Debug("extracted control", "id", step.Entry.ID, "next", step.NextID, "sections", details.Names())
		}
		records[i] = Merge(step.Entry, details)
	}
	return records
}

// Merge overlays details on entry to form one record.
func Merge(entry types.ControlEntry, details types.ControlDetails) types.ControlRecord {
	return types.ControlRecord{ControlEntry: entry, Details: details}
}

// ConvertBenchmark parses the PDF and writes its records according to out.
// It returns the parsed benchmark and the path written. Nothing is written
// when parsing fails or finds no controls.
func ConvertBenchmark(e pdftext.Extractor, pdfPath string, out types.OutputConfig, opts Options) (types.Benchmark, string, error) {
	b, err := ParseBenchmark(e, pdfPath, opts)
	if err != nil {
		return b, "", err
	}

	path, err := WriteBenchmark(b, out)
	if err != nil {
		b.Status = types.ParseFailed
		return b, "", err
	}
	opts.logger().Info("saved output", "path", path)
	return b, path, nil
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Parsed     int
	NoControls int
	Failed     int

	// Benchmarks holds the benchmarks that were parsed and written.
	Benchmarks []types.Benchmark

	// Failures holds the error of each failed PDF in input order.
	Failures []error
}

// Total returns the number of PDFs processed.
func (r BatchResult) Total() int {
	return r.Parsed + r.NoControls + r.Failed
}

// HasFailures reports whether any PDF failed to parse or write.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts each PDF in turn, printing per-file status to w and
// returning a summary. One failing PDF does not stop the batch.
func ConvertBatch(e pdftext.Extractor, pdfPaths []string, out types.OutputConfig, opts Options, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range pdfPaths {
		b, path, err := ConvertBenchmark(e, p, out, opts)
		switch {
		case err == nil:
			fmt.Fprintf(w, "parsed:  %s (%d controls) -> %s\n", b.ID, len(b.Records), path)
			result.Parsed++
			result.Benchmarks = append(result.Benchmarks, b)
		case errors.Is(err, ErrNoControls):
			fmt.Fprintf(w, "skipped: %s (%v)\n", b.ID, err)
			result.NoControls++
		default:
			fmt.Fprintf(w, "failed:  %s (%v)\n", b.ID, err)
			result.Failed++
			result.Failures = append(result.Failures, fmt.Errorf("%s: %w", p, err))
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d parsed, %d without controls, %d failed (total: %d)\n",
		result.Parsed, result.NoControls, result.Failed, result.Total())
	return result
}

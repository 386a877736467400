// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext reads the text of a PDF page by page and joins it into the
// single string the benchmark parsers operate on. Backends are pluggable:
// the native Go reader, or the pdftotext binary.
package pdftext

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/cisbench/pkg/types"
)

var (
	// ErrSourceAccess reports a PDF that is missing or cannot be read.
	ErrSourceAccess = errors.New("source not accessible")

	// ErrFormat reports a file that is not a readable PDF.
	ErrFormat = errors.New("not a valid PDF")
)

// PageFunc is called after each page is read. It is cosmetic only.
type PageFunc func(page, total int)

// Extractor returns the text of every page in a PDF, in page order. A page
// whose text cannot be extracted yields an empty string, not an error.
type Extractor interface {
	// Name returns the backend name.
	Name() string

	// Pages reads the PDF at pdfPath. onPage may be nil.
	Pages(pdfPath string, onPage PageFunc) ([]string, error)
}

// New returns the extractor for the configured backend.
func New(backend types.ExtractionBackend) (Extractor, error) {
	switch backend {
	case types.BackendNative, "":
		return Native{}, nil
	case types.BackendPdftotext:
		return NewPdftotext(), nil
	default:
		return nil, fmt.Errorf("unknown extraction backend %q", backend)
	}
}

// Text reads every page with e and joins the page texts with newlines.
// Progress is written to w as a single line rewritten per page.
func Text(e Extractor, pdfPath string, w io.Writer) (string, error) {
	if w == nil {
		w = io.Discard
	}
	name := types.BenchmarkID(pdfPath)
	pages, err := e.Pages(pdfPath, func(page, total int) {
		fmt.Fprintf(w, "\rReading %s: %d/%d pages", name, page, total)
	})
	if err != nil {
		return "", err
	}
	if len(pages) > 0 {
		fmt.Fprintln(w)
	}
	return strings.Join(pages, "\n"), nil
}

// checkSource confirms pdfPath names a readable regular file.
func checkSource(pdfPath string) error {
	info, err := os.Stat(pdfPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceAccess, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrSourceAccess, pdfPath)
	}
	f, err := os.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceAccess, err)
	}
	return f.Close()
}

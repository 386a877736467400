// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"
	"os/exec"
	"strings"
)

const binPdftotext = "pdftotext"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// Pdftotext extracts text by running the poppler pdftotext binary, which
// separates pages with form feeds.
type Pdftotext struct {
	exec executor
}

// NewPdftotext returns a Pdftotext backed by os/exec.
func NewPdftotext() *Pdftotext {
	return &Pdftotext{exec: &osExecutor{}}
}

// Name returns "pdftotext".
func (p *Pdftotext) Name() string { return binPdftotext }

// Pages runs pdftotext over the whole document and splits the result on
// form feeds.
func (p *Pdftotext) Pages(pdfPath string, onPage PageFunc) ([]string, error) {
	if err := checkSource(pdfPath); err != nil {
		return nil, err
	}
	if _, err := p.exec.LookPath(binPdftotext); err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", binPdftotext, err)
	}

	out, err := p.exec.Output(binPdftotext, "-layout", pdfPath, "-")
	if err != nil {
		return nil, fmt.Errorf("%w: %s rejected %s: %w", ErrFormat, binPdftotext, pdfPath, err)
	}

	pages := splitPages(string(out))
	for i := range pages {
		if onPage != nil {
			onPage(i+1, len(pages))
		}
	}
	return pages, nil
}

// splitPages splits on form feeds. pdftotext terminates every page, including
// the last, with a form feed, so the trailing empty element is dropped.
func splitPages(text string) []string {
	if text == "" {
		return nil
	}
	pages := strings.Split(text, "\f")
	if pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}

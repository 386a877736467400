// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Native extracts text with the pure-Go ledongthuc/pdf reader.
type Native struct{}

// Name returns "native".
func (Native) Name() string { return "native" }

// Pages opens the PDF and returns the plain text of every page.
func (Native) Pages(pdfPath string, onPage PageFunc) (pages []string, err error) {
	if err := checkSource(pdfPath); err != nil {
		return nil, err
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: %s: %v", ErrFormat, pdfPath, r)
		}
	}()

	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFormat, pdfPath, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages = make([]string, total)
	for i := 1; i <= total; i++ {
		pages[i-1] = pageText(reader, i)
		if onPage != nil {
			onPage(i, total)
		}
	}
	return pages, nil
}

// pageText returns the text of page i, or "" when the page is empty or its
// content cannot be decoded.
func pageText(reader *pdf.Reader, i int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := reader.Page(i)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

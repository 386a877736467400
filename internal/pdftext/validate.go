// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Use built-in defaults instead of creating pdfcpu's config.yml under the
	// user config directory.
	model.ConfigPath = "disable"
}

// Info summarizes a PDF that passed preflight.
type Info struct {
	PageCount int
}

// Validate reads the PDF structure with pdfcpu in relaxed mode. It reports
// ErrSourceAccess when the file cannot be opened and ErrFormat when pdfcpu
// cannot parse it.
func Validate(pdfPath string) (info Info, err error) {
	if err := checkSource(pdfPath); err != nil {
		return Info{}, err
	}

	f, err := os.Open(pdfPath)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrSourceAccess, err)
	}
	defer f.Close()

	// pdfcpu panics on some damaged object streams.
	defer func() {
		if r := recover(); r != nil {
			info = Info{}
			err = fmt.Errorf("%w: reading %s: %v", ErrFormat, pdfPath, r)
		}
	}()

	return readInfo(f, pdfPath)
}

func readInfo(f *os.File, pdfPath string) (Info, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := readContext(f, conf)
	if err != nil {
		return Info{}, fmt.Errorf("%w: reading %s: %w", ErrFormat, pdfPath, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return Info{}, fmt.Errorf("%w: counting pages of %s: %w", ErrFormat, pdfPath, err)
	}

	return Info{PageCount: ctx.PageCount}, nil
}

// readContext is api.ReadContext, replaceable in tests.
var readContext = func(f *os.File, conf *model.Configuration) (*model.Context, error) {
	return api.ReadContext(f, conf)
}

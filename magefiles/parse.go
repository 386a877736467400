//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Parse builds the CLI and converts one benchmark PDF into outDir.
func Parse(pdf, outDir string) error {
	mg.Deps(Build)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	return sh.RunV(filepath.Join(binDir, binName), pdf, outDir)
}

// Batch builds the CLI and converts every PDF in pdfDir into outDir.
func Batch(pdfDir, outDir string) error {
	mg.Deps(Build)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	return sh.RunV(filepath.Join(binDir, binName), "batch", outDir, pdfDir)
}

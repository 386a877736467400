// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cisbench/internal/convert"
)

var batchCmd = &cobra.Command{
	Use:   "batch <output_folder> <pdf_or_dir>...",
	Short: "Parse many benchmark PDFs into one output folder",
	Long: `Batch parses each PDF in turn and writes one JSON file per benchmark into
the output folder. Directory arguments expand to the *.pdf files they
contain. A PDF that fails or has no controls is reported and skipped.

The command fails if any PDF failed. Its exit status is that of the first
failure: 2 for an unreadable or invalid PDF, 4 when the output folder cannot
be written. PDFs without controls do not fail the batch.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	pdfs, err := expandPDFs(args[1:])
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		return fmt.Errorf("no PDF files found in %s", strings.Join(args[1:], ", "))
	}

	p, err := newPipeline(args[0])
	if err != nil {
		return err
	}

	result := convert.ConvertBatch(p.extractor, pdfs, p.cfg.Output, p.opts, cmd.OutOrStdout())
	if err := p.index(cmd.Context(), result.Benchmarks...); err != nil {
		return err
	}

	if result.HasFailures() {
		return batchError(result)
	}
	return nil
}

// batchError summarizes a batch with failures, wrapping the first failure so
// its exit status carries through.
func batchError(result convert.BatchResult) error {
	if len(result.Failures) == 0 {
		return fmt.Errorf("%d of %d benchmark(s) failed", result.Failed, result.Total())
	}
	return fmt.Errorf("%d of %d benchmark(s) failed; first: %w", result.Failed, result.Total(), result.Failures[0])
}

// expandPDFs resolves file and directory arguments to a sorted list of PDF
// paths. Explicit file arguments are kept as given.
func expandPDFs(args []string) ([]string, error) {
	var pdfs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			pdfs = append(pdfs, arg)
			continue
		}
		if !info.IsDir() {
			pdfs = append(pdfs, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		pdfs = append(pdfs, found...)
	}
	return pdfs, nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

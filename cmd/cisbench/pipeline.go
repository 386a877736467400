// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/pdiddy/cisbench/internal/catalog"
	"github.com/pdiddy/cisbench/internal/convert"
	"github.com/pdiddy/cisbench/internal/pdftext"
	"github.com/pdiddy/cisbench/internal/sections"
	"github.com/pdiddy/cisbench/pkg/types"
)

// pipeline bundles the resolved configuration with the collaborators it
// selects.
type pipeline struct {
	cfg       types.ParseConfig
	extractor pdftext.Extractor
	opts      convert.Options
}

// parseConfig reads the pipeline settings from viper. outDir is the output
// folder argument.
func parseConfig(outDir string) types.ParseConfig {
	cfg := types.DefaultParseConfig()
	cfg.Extraction.Backend = types.ExtractionBackend(viper.GetString("backend"))
	cfg.Extraction.Validate = viper.GetBool("validate")
	cfg.Output.Dir = outDir
	cfg.Output.Format = types.OutputFormat(viper.GetString("format"))
	cfg.Output.Indent = viper.GetInt("indent")
	cfg.SectionsFile = viper.GetString("sections_file")
	cfg.CatalogPath = viper.GetString("catalog")
	return cfg
}

func newPipeline(outDir string) (*pipeline, error) {
	cfg := parseConfig(outDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	extractor, err := pdftext.New(cfg.Extraction.Backend)
	if err != nil {
		return nil, err
	}

	var set *sections.Set
	if cfg.SectionsFile != "" {
		set, err = sections.Load(cfg.SectionsFile)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded section patterns", "file", cfg.SectionsFile, "sections", set.Names())
	}

	var progress io.Writer = os.Stderr
	if viper.GetBool("quiet") {
		progress = io.Discard
	}

	return &pipeline{
		cfg:       cfg,
		extractor: extractor,
		opts: convert.Options{
			Sections: set,
			Validate: cfg.Extraction.Validate,
			Logger:   logger,
			Progress: progress,
		},
	}, nil
}

// index adds parsed benchmarks to the catalog when one is configured.
func (p *pipeline) index(ctx context.Context, benchmarks ...types.Benchmark) error {
	if p.cfg.CatalogPath == "" {
		return nil
	}

	store, err := catalog.Open(p.cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, b := range benchmarks {
		if b.Status != types.ParseDone {
			continue
		}
		if err := store.Ingest(ctx, b); err != nil {
			return fmt.Errorf("indexing %s: %w", b.ID, err)
		}
		logger.Info("indexed benchmark", "benchmark", b.ID, "controls", len(b.Records), "catalog", p.cfg.CatalogPath)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cisbench/internal/catalog"
	"github.com/pdiddy/cisbench/internal/convert"
	"github.com/pdiddy/cisbench/pkg/types"
)

const defaultCatalogPath = "cisbench.db"

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Index parsed benchmarks and search their controls",
	Long: `Catalog manages a local SQLite database of parsed benchmarks with a
full-text index over control titles and section text. The database path
comes from --catalog (default cisbench.db).`,
}

// --- index subcommand ---

var catalogIndexCmd = &cobra.Command{
	Use:   "index <json>...",
	Short: "Ingest parsed benchmark JSON files into the catalog",
	Long: `Index reads JSON files written by cisbench and stores their controls.
The benchmark ID is the file name without extension; re-indexing a file
replaces the benchmark's previous controls.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogIndex,
}

func runCatalogIndex(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.IngestFiles(cmd.Context(), args, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Full-text search over indexed controls",
	Long: `Search matches the query against control titles and section text using
SQLite FTS4 syntax (terms, "phrases", OR, prefix*). Results are ordered by
benchmark, then by position in the benchmark.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	hits, err := store.Search(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}
	return formatHits(cmd.OutOrStdout(), hits, jsonOutput)
}

func formatHits(w io.Writer, hits []catalog.Hit, jsonOutput bool) error {
	if jsonOutput {
		if hits == nil {
			hits = []catalog.Hit{}
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-40s  %-10s  %s\n", "Benchmark", "ID", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, h := range hits {
		fmt.Fprintf(w, "%-40s  %-10s  %s\n", truncate(h.Benchmark, 40), h.Record.ID, truncate(h.Record.Title, 56))
	}
	fmt.Fprintf(w, "\n%d results\n", len(hits))
	return nil
}

// --- show subcommand ---

var catalogShowCmd = &cobra.Command{
	Use:   "show <benchmark> <id>",
	Short: "Print one stored control record",
	Args:  cobra.ExactArgs(2),
	RunE:  runCatalogShow,
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Control(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if types.OutputFormat(viper.GetString("format")) == types.OutputYAML {
		data, err := convert.MarshalYAML([]types.ControlRecord{rec}, 2)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed benchmarks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCatalog()
		if err != nil {
			return err
		}
		defer store.Close()

		benchmarks, err := store.Benchmarks(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, b := range benchmarks {
			fmt.Fprintf(w, "%-60s  %4d controls\n", b.ID, b.Controls)
		}
		fmt.Fprintf(w, "\n%d benchmarks\n", len(benchmarks))
		return nil
	},
}

// --- shared helpers ---

func catalogPath() string {
	if p := viper.GetString("catalog"); p != "" {
		return p
	}
	return defaultCatalogPath
}

func openCatalog() (*catalog.Store, error) {
	path := catalogPath()
	logger.Debug("opening catalog", "path", path)
	return catalog.Open(path)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	catalogSearchCmd.Flags().Int("limit", 20, "maximum number of results")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")

	catalogCmd.AddCommand(catalogIndexCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogListCmd)

	rootCmd.AddCommand(catalogCmd)
}

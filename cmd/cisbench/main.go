// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cisbench CLI. The root command
// parses one CIS Benchmark PDF into a JSON file; subcommands cover batch
// runs, the optional SQLite catalog, and the version string.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cisbench/internal/convert"
	"github.com/pdiddy/cisbench/internal/pdftext"
)

// version is set at build time via ldflags.
var version = "dev"

// Exit codes reported by main.
const (
	exitOK          = 0
	exitUsage       = 1
	exitSource      = 2
	exitNoControls  = 3
	exitDestination = 4
)

// logger is configured once in PersistentPreRunE.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// rootCmd parses a single benchmark.
var rootCmd = &cobra.Command{
	Use:   "cisbench <pdf_path> <output_folder>",
	Short: "Convert CIS Benchmark PDFs into structured JSON",
	Long: `cisbench reads a CIS Benchmark PDF, locates its table of contents, and
extracts each control's title and labeled sections (profile, description,
rationale, impact, audit, remediation, default value, references) from the
appendix. The result is written to <output_folder>/<pdf basename>.json as an
array of records in table-of-contents order.

Use "cisbench batch" to process many PDFs and "cisbench catalog" to index
parsed benchmarks for full-text search.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log_level"), os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)
		return nil
	},
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(args[1])
	if err != nil {
		return err
	}

	b, path, err := convert.ConvertBenchmark(p.extractor, args[0], p.cfg.Output, p.opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d controls -> %s\n", len(b.Records), path)

	return p.index(cmd.Context(), b)
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./cisbench.yaml or ~/.config/cisbench/cisbench.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, or error")
	pf.Bool("quiet", false, "suppress the page progress indicator")
	pf.String("backend", "native", "text extraction backend: native or pdftotext")
	pf.Bool("validate", true, "check PDF structure with pdfcpu before extracting text")
	pf.String("sections-file", "", "YAML file replacing the default section patterns")
	pf.String("format", "json", "output format: json or yaml")
	pf.Int("indent", 4, "output indentation in spaces")
	pf.String("catalog", "", "SQLite catalog to index parsed records into")

	for key, flag := range map[string]string{
		"log_level":     "log-level",
		"quiet":         "quiet",
		"backend":       "backend",
		"validate":      "validate",
		"sections_file": "sections-file",
		"format":        "format",
		"indent":        "indent",
		"catalog":       "catalog",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cisbench")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cisbench"))
		}
	}

	viper.SetEnvPrefix("CISBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger: a text handler on w at the named level.
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log_level %q: use debug, info, warn, or error", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// exitCode maps an error returned by a command to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, pdftext.ErrSourceAccess), errors.Is(err, pdftext.ErrFormat):
		return exitSource
	case errors.Is(err, convert.ErrNoControls):
		return exitNoControls
	case errors.Is(err, convert.ErrDestinationWrite):
		return exitDestination
	default:
		return exitUsage
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cisbench: %v\n", err)
	}
	os.Exit(exitCode(err))
}

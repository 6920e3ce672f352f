// Package main provides the ir-bench binary: a parametrized evaluation
// sweep over term-weighting schemes, similarity measures and
// preprocessing switches for a fixed document/query corpus.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/irbench/ir-bench/internal/analysis"
	"github.com/irbench/ir-bench/internal/config"
	"github.com/irbench/ir-bench/internal/corpus"
	"github.com/irbench/ir-bench/internal/pkg/hash"
	"github.com/irbench/ir-bench/internal/pkg/logger"
	"github.com/irbench/ir-bench/internal/report"
	"github.com/irbench/ir-bench/internal/sweep"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ir-bench",
		Short: "ir-bench - information retrieval evaluation harness",
		Long: `ir-bench scores every combination of term-weighting scheme, similarity
measure, stopword-removal switch, stemming switch and weight profile over
a fixed corpus and query set, and emits one metric row per combination.

Run 'ir-bench sweep' to run the full permutation sweep.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")

	rootCmd.AddCommand(
		sweepCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the full permutation evaluation sweep",
		Long: `Run the evaluation pipeline once per configuration in the Cartesian
product of the sweep dimensions and write one row per configuration to a
tab-separated results table.

Examples:
  ir-bench sweep --docs cacm.raw --queries query.raw --rels query.rels \
      --stopwords common_words --output output.tsv
  ir-bench sweep -c irbench.yaml --sqlite results.db`,
		RunE:         runSweep,
		SilenceUsage: true,
	}

	cmd.Flags().String("docs", "", "corpus documents file")
	cmd.Flags().String("queries", "", "corpus queries file")
	cmd.Flags().String("rels", "", "relevance judgments file")
	cmd.Flags().String("stopwords", "", "stopword list file")
	cmd.Flags().StringP("output", "o", "", "output TSV path (default stdout)")
	cmd.Flags().String("sqlite", "", "optional SQLite results database")
	cmd.Flags().IntP("workers", "w", 0, "parallel workers (default from config)")

	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPartial(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	docs, queries, stopwords, fingerprint, err := loadInputs(cfg)
	if err != nil {
		return err
	}
	log.Info("inputs loaded",
		"documents", len(docs),
		"queries", len(queries),
		"stopwords", len(stopwords),
		"fingerprint", fingerprint,
	)

	analyzer := analysis.NewAnalyzer(stopwords, nil)
	runner := sweep.NewRunner(docs, queries, analyzer, cfg.Sweep.Workers, log)

	results, err := runner.Run(ctx, cfg.Dimensions())
	if err != nil {
		return err
	}

	rows := report.FromResults(results)
	if err := writeOutputs(cfg, rows); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	log.Info("results written",
		"rows", len(rows),
		"failed", failed,
		"output", orStdout(cfg.Output.TSV),
	)
	return nil
}

// applyFlagOverrides merges explicitly-set CLI flags over the loaded
// configuration. Flags win over file and environment.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("docs") {
		cfg.Input.Docs, _ = cmd.Flags().GetString("docs")
	}
	if cmd.Flags().Changed("queries") {
		cfg.Input.Queries, _ = cmd.Flags().GetString("queries")
	}
	if cmd.Flags().Changed("rels") {
		cfg.Input.Judgments, _ = cmd.Flags().GetString("rels")
	}
	if cmd.Flags().Changed("stopwords") {
		cfg.Input.Stopwords, _ = cmd.Flags().GetString("stopwords")
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.TSV, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("sqlite") {
		cfg.Output.SQLite, _ = cmd.Flags().GetString("sqlite")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Sweep.Workers, _ = cmd.Flags().GetInt("workers")
	}
}

// loadInputs reads and parses the corpus files. The fingerprint ties a
// result table to the exact input bytes that produced it.
func loadInputs(cfg *config.Config) ([]corpus.Document, []corpus.Query, map[string]struct{}, string, error) {
	docsRaw, err := os.ReadFile(cfg.Input.Docs)
	if err != nil {
		return nil, nil, nil, "", fmt.Errorf("reading documents: %w", err)
	}
	queriesRaw, err := os.ReadFile(cfg.Input.Queries)
	if err != nil {
		return nil, nil, nil, "", fmt.Errorf("reading queries: %w", err)
	}
	relsRaw, err := os.ReadFile(cfg.Input.Judgments)
	if err != nil {
		return nil, nil, nil, "", fmt.Errorf("reading judgments: %w", err)
	}
	var stopRaw []byte
	if cfg.Input.Stopwords != "" {
		stopRaw, err = os.ReadFile(cfg.Input.Stopwords)
		if err != nil {
			return nil, nil, nil, "", fmt.Errorf("reading stopwords: %w", err)
		}
	}

	docs, err := corpus.ReadDocuments(bytes.NewReader(docsRaw))
	if err != nil {
		return nil, nil, nil, "", err
	}
	queryDocs, err := corpus.ReadDocuments(bytes.NewReader(queriesRaw))
	if err != nil {
		return nil, nil, nil, "", err
	}
	rels, err := corpus.ReadJudgments(bytes.NewReader(relsRaw))
	if err != nil {
		return nil, nil, nil, "", err
	}
	stopwords := make(map[string]struct{})
	if len(stopRaw) > 0 {
		stopwords, err = corpus.ReadStopwords(bytes.NewReader(stopRaw))
		if err != nil {
			return nil, nil, nil, "", err
		}
	}

	queries := corpus.AttachJudgments(queryDocs, rels)
	fingerprint := hash.Fingerprint(docsRaw, queriesRaw, relsRaw, stopRaw)[:12]

	return docs, queries, stopwords, fingerprint, nil
}

func writeOutputs(cfg *config.Config, rows []report.Row) error {
	out := os.Stdout
	if cfg.Output.TSV != "" {
		f, err := os.Create(cfg.Output.TSV)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := report.WriteTSV(out, rows); err != nil {
		return err
	}

	if cfg.Output.SQLite != "" {
		sink, err := report.OpenSQLite(cfg.Output.SQLite)
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := sink.Write(rows); err != nil {
			return err
		}
	}

	return nil
}

func orStdout(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ir-bench %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

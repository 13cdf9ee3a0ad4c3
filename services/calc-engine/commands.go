package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"financial_analysis/pkg/core/analysis"
	"financial_analysis/pkg/core/benchmark"
	"financial_analysis/pkg/core/calc"
	"financial_analysis/pkg/core/config"
	"financial_analysis/pkg/core/logger"
	"financial_analysis/pkg/core/narrative"
	"financial_analysis/pkg/models"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "calc-engine",
		Short:         "Financial ratio and scoring engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(opts.logLevel, "")
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "service config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(analyzeCmd(opts))
	root.AddCommand(checkCmd())
	root.AddCommand(rosterCmd())
	root.AddCommand(benchmarksCmd(opts))
	return root
}

// newEngine builds an engine from the configured rules and benchmarks.
func newEngine(opts *rootOptions) (*analysis.AnalysisEngine, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	rules, err := narrative.LoadFromDirectory(cfg.Analysis.RulesDir)
	if err != nil {
		return nil, err
	}
	table, err := benchmark.LoadFile(cfg.Analysis.BenchmarksFile)
	if err != nil {
		return nil, err
	}
	return analysis.NewAnalysisEngine(analysis.WithRules(rules), analysis.WithBenchmarks(table)), nil
}

func analyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		file   string
		req    analysis.Request
		format string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a financial data file and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			engine, err := newEngine(opts)
			if err != nil {
				return err
			}
			rep, err := engine.AnalyzeJSON(req, data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			case "markdown":
				_, err = io.WriteString(out, rep.Markdown())
				return err
			case "html":
				html, err := rep.HTML()
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, html)
				return err
			default:
				return fmt.Errorf("unknown format %q (json, markdown, html)", format)
			}
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "financial data JSON file")
	cmd.Flags().StringVar(&req.CompanyName, "company", "Company", "company name")
	cmd.Flags().StringVar(&req.Sector, "sector", "", "sector id")
	cmd.Flags().StringVar(&req.Language, "lang", "", "report language (en, ar)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, markdown, html")
	cmd.MarkFlagRequired("file")
	return cmd
}

// checkCmd runs the accounting identity checks on a data file.
func checkCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the balance sheet and cash flow identities",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			payload, err := models.ParsePayload(data)
			if err != nil {
				return err
			}
			rec, err := models.NewFinancialRecord(models.CompanyInfo{}, payload)
			if err != nil {
				return err
			}

			checks := calc.Verify(rec)
			if len(checks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No checks apply: totals are missing")
				return nil
			}
			failed := 0
			for _, c := range checks {
				if c.Balanced {
					fmt.Fprintf(cmd.OutOrStdout(), "OK    %s\n", c.Name)
					continue
				}
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %s: %s\n", c.Name, c.Warning)
			}
			if failed > 0 {
				return fmt.Errorf("%d integrity check(s) failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "financial data JSON file")
	cmd.MarkFlagRequired("file")
	return cmd
}

func rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List every metric by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tMETRIC\tKIND\tDIRECTION")
			for _, m := range calc.Roster() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Category, m.Name, m.Kind, m.Direction)
			}
			fmt.Fprintf(tw, "\n%d metrics\n", calc.Total())
			return tw.Flush()
		},
	}
}

func benchmarksCmd(opts *rootOptions) *cobra.Command {
	var sector string
	cmd := &cobra.Command{
		Use:   "benchmarks",
		Short: "Print the benchmark set resolved for a sector",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(opts)
			if err != nil {
				return err
			}
			if sector != "" && !engine.Reference().HasSector(sector) {
				return fmt.Errorf("unknown sector %q", sector)
			}
			set := engine.Benchmarks().For(sector, nil)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "METRIC\tBENCHMARK")
			for _, name := range set.Names() {
				v, _ := set.Get(name)
				fmt.Fprintf(tw, "%s\t%g\n", name, v)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&sector, "sector", "", "sector id (empty for defaults)")
	return cmd
}

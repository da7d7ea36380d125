package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bayneri/outlay/internal/analyze"
	"github.com/bayneri/outlay/internal/breach"
	"github.com/bayneri/outlay/internal/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	file          string
	out           string
	format        string
	explain       bool
	timezone      string
	failOnPartial bool
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var ao analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a full scenario analysis and write reports",
		Long: `Run every engine for a scenario: TCO for each vendor, comparisons against
the product, breach exposure, and sensitivity sweeps. Reports are written to
out/outlay-analyze/<timestamp>-<scenario> unless --out is given.

Example:
  outlay analyze -f hospital.yaml --explain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, ao)
		},
	}
	cmd.Flags().StringVarP(&ao.file, "file", "f", "", "path to scenario YAML")
	cmd.Flags().StringVar(&ao.out, "out", "", "output directory")
	cmd.Flags().StringVar(&ao.format, "format", "md,json", "comma-separated report formats")
	cmd.Flags().BoolVar(&ao.explain, "explain", false, "include formulas and complexity notes")
	cmd.Flags().StringVar(&ao.timezone, "timezone", "UTC", "IANA timezone for reports")
	cmd.Flags().BoolVar(&ao.failOnPartial, "fail-on-partial", false, "exit non-zero if a breach or sensitivity section fails")
	return cmd
}

func runAnalyze(opts *rootOptions, ao analyzeOptions) error {
	loc, err := time.LoadLocation(ao.timezone)
	if err != nil {
		return invalid(fmt.Errorf("invalid timezone: %w", err))
	}
	c, err := opts.catalog()
	if err != nil {
		return err
	}
	logger, err := opts.logger()
	if err != nil {
		return invalid(err)
	}
	s, err := loadScenario(ao.file)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	result, err := analyze.Run(c, s, analyze.Options{
		Explain: ao.explain,
		Logger:  logger,
		Breach:  breach.NewCalculator(c, logger, breach.WithRegisterer(registry)),
	})
	if err != nil {
		return asInvalid(err)
	}

	outDir := ao.out
	if outDir == "" {
		outDir = analyze.DefaultOutDir(result.Scenario, result.GeneratedAt)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	formats := parseFormat(ao.format)
	if includesFormat(formats, "md") {
		if err := report.WriteMarkdownSummary(filepath.Join(outDir, "summary.md"), result, report.Options{Explain: ao.explain, Timezone: loc}); err != nil {
			return err
		}
	}
	if includesFormat(formats, "json") {
		if err := report.WriteSummaryJSON(filepath.Join(outDir, "summary.json"), result); err != nil {
			return err
		}
	}
	if err := report.WriteSourcesJSON(filepath.Join(outDir, "sources.json"), analyze.SourcesFor(ao.file, opts.catalogPath, s)); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(filepath.Join(outDir, "metrics.prom"), registry); err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		if err := report.WriteErrorsMarkdown(filepath.Join(outDir, "errors.md"), result.Errors); err != nil {
			return err
		}
	}

	err = render(opts.out, opts.output, result, func(w io.Writer) {
		printAnalysis(w, result)
		fmt.Fprintf(w, "\nWrote analysis to %s\n", outDir)
	})
	if err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		if ao.failOnPartial {
			return exitError{code: exitPartial, err: errors.New("partial analysis")}
		}
		for _, e := range result.Errors {
			warn(opts.errOut, "%s", e)
		}
	}
	return nil
}

func printAnalysis(w io.Writer, r analyze.Result) {
	out := tcoOutput{Parameters: r.Parameters, Comparisons: r.Comparisons}
	for _, v := range r.Vendors {
		out.Vendors = append(out.Vendors, v.Result)
	}
	headerColor.Fprintf(w, "%s\n", r.Scenario)
	printTCO(w, out)
	if r.Breach != nil {
		fmt.Fprintf(w, "\n")
		printBreach(w, r.Breach)
	}
	for _, s := range r.Sensitivity {
		fmt.Fprintf(w, "\n")
		printSensitivity(w, s)
	}
	if len(r.Notes) > 0 {
		fmt.Fprintf(w, "\n")
		for _, note := range r.Notes {
			mutedColor.Fprintf(w, "- %s\n", note)
		}
	}
}

func parseFormat(input string) []string {
	out := splitCSV(strings.ToLower(input))
	if len(out) == 0 {
		return []string{"md", "json"}
	}
	return out
}

func includesFormat(formats []string, value string) bool {
	for _, format := range formats {
		if format == value {
			return true
		}
	}
	return false
}

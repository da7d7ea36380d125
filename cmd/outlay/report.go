package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bayneri/outlay/internal/report"
	"github.com/spf13/cobra"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		inputs string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Combine analyze summaries into a portfolio report",
		Long: `Combine summary.json files from several analyze runs into one portfolio
report. Exits 2 when an input carried errors or a scenario appears twice.

Example:
  outlay report --inputs out/a/summary.json,out/b/summary.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(inputs) == "" {
				return invalid(errors.New("--inputs is required"))
			}
			paths := splitCSV(inputs)
			results, err := report.ReadResults(paths)
			if err != nil {
				return err
			}
			agg, err := report.Aggregate(results, paths)
			if err != nil {
				return err
			}
			if err := report.WriteAggregateJSON(filepath.Join(outDir, "summary.json"), agg); err != nil {
				return err
			}
			if err := report.WriteAggregateMarkdown(filepath.Join(outDir, "summary.md"), agg); err != nil {
				return err
			}
			fmt.Fprintf(opts.out, "Wrote report to %s\n", outDir)
			if len(agg.Errors) > 0 {
				for _, e := range agg.Errors {
					warn(opts.errOut, "%s", e)
				}
				return exitError{code: exitPartial, err: errors.New("partial report")}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inputs, "inputs", "", "comma-separated list of analyze summary.json files")
	cmd.Flags().StringVar(&outDir, "out", "out/report", "output directory")
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bayneri/outlay/internal/scenario"
	"github.com/spf13/cobra"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var (
		initOpts scenario.InitOptions
		labels   string
		outPath  string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Draft a scenario file from a preset",
		Long: `Draft a TCOAnalysis scenario from a preset. Unknown vendors are skipped
with a warning and the command exits 2.

Example:
  outlay init --name campus --industry education --preset enterprise --vendors portnox,cisco-ise --records 20000 --sweep`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.catalog()
			if err != nil {
				return err
			}
			parsed, err := scenario.ParseLabels(labels)
			if err != nil {
				return invalid(err)
			}
			initOpts.Labels = parsed
			result, err := scenario.Init(c, initOpts)
			if err != nil {
				return invalid(err)
			}
			data, err := scenario.Marshal(result.Scenario)
			if err != nil {
				return err
			}
			path := outPath
			if strings.TrimSpace(path) == "" {
				path = filepath.Join("out", "init", fmt.Sprintf("%s.yaml", initOpts.Name))
			}
			if path == "-" {
				fmt.Fprint(opts.out, string(data))
			} else {
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return err
				}
				if err := os.WriteFile(path, data, 0644); err != nil {
					return err
				}
				fmt.Fprintf(opts.out, "Wrote scenario to %s\n", path)
			}
			for _, w := range result.Warnings {
				warn(opts.errOut, "%s", w)
			}
			if len(result.Warnings) > 0 {
				return exitError{code: exitPartial, err: errors.New("scenario drafted with warnings")}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&initOpts.Name, "name", "", "scenario name")
	cmd.Flags().StringVar(&initOpts.Project, "project", "", "GCP project for publishing")
	cmd.Flags().StringVar(&initOpts.Preset, "preset", "midmarket", fmt.Sprintf("preset (%s)", strings.Join(scenario.PresetNames(), ", ")))
	cmd.Flags().StringVar(&initOpts.Industry, "industry", "", "industry id from the catalog")
	cmd.Flags().StringSliceVar(&initOpts.Vendors, "vendors", nil, "vendor ids, product first (default: every catalog vendor)")
	cmd.Flags().Int64Var(&initOpts.DataRecords, "records", 0, "data records at risk; enables the breach section")
	cmd.Flags().BoolVar(&initOpts.Sweep, "sweep", false, "add a device count sweep")
	cmd.Flags().StringVar(&labels, "labels", "", "labels in key=value,key=value format")
	cmd.Flags().StringVar(&outPath, "out", "", "output path, or - for stdout")
	return cmd
}

package main

import (
	"fmt"

	"github.com/bayneri/outlay/internal/export/monitoringjson"
	"github.com/bayneri/outlay/internal/export/terraform"
	"github.com/bayneri/outlay/internal/planner"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the publish plan for other tooling",
	}
	cmd.AddCommand(
		newExportFormatCmd(opts, "terraform", "out/terraform", "Terraform JSON", terraform.Write),
		newExportFormatCmd(opts, "monitoring-json", "out/monitoring-json", "Monitoring JSON", monitoringjson.Write),
	)
	return cmd
}

func newExportFormatCmd(opts *rootOptions, name, defaultOut, label string, write func(planner.Plan, string) (string, error)) *cobra.Command {
	var (
		p      planOptions
		outDir string
	)
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Write the metric descriptors and dashboard as %s", label),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := buildPlan(opts, p)
			if err != nil {
				return err
			}
			path, err := write(plan, outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(opts.out, "Wrote %s export to %s\n", label, path)
			return nil
		},
	}
	p.register(cmd, false)
	cmd.Flags().StringVar(&outDir, "out", defaultOut, "output directory")
	return cmd
}

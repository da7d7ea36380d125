package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bayneri/outlay/internal/analyze"
	"github.com/bayneri/outlay/internal/monitoring"
	"github.com/bayneri/outlay/internal/planner"
	"github.com/bayneri/outlay/internal/scenario"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// planOptions are shared by publish, delete, and export.
type planOptions struct {
	file         string
	project      string
	labels       string
	dryRun       bool
	quotaProject string
}

func (p *planOptions) register(cmd *cobra.Command, dryRun bool) {
	cmd.Flags().StringVarP(&p.file, "file", "f", "", "path to scenario YAML")
	cmd.Flags().StringVar(&p.project, "project", "", "GCP project ID (overrides metadata.project)")
	cmd.Flags().StringVar(&p.labels, "labels", "", "extra labels in key=value,key=value format")
	if dryRun {
		cmd.Flags().BoolVar(&p.dryRun, "dry-run", false, "show planned changes without applying")
		cmd.Flags().StringVar(&p.quotaProject, "quota-project", "", "project billed for Monitoring API quota")
	}
}

func buildPlan(opts *rootOptions, p planOptions) (planner.Plan, error) {
	labels, err := scenario.ParseLabels(p.labels)
	if err != nil {
		return planner.Plan{}, invalid(err)
	}
	c, err := opts.catalog()
	if err != nil {
		return planner.Plan{}, err
	}
	logger, err := opts.logger()
	if err != nil {
		return planner.Plan{}, invalid(err)
	}
	s, err := loadScenario(p.file)
	if err != nil {
		return planner.Plan{}, err
	}
	if strings.TrimSpace(p.project) == "" && strings.TrimSpace(s.Metadata.Project) == "" {
		return planner.Plan{}, invalid(errors.New("project is required via --project or metadata.project"))
	}
	if p.project != "" && s.Metadata.Project != "" && p.project != s.Metadata.Project {
		return planner.Plan{}, invalid(fmt.Errorf("--project %q does not match metadata.project %q", p.project, s.Metadata.Project))
	}
	result, err := analyze.Run(c, s, analyze.Options{Logger: logger})
	if err != nil {
		return planner.Plan{}, asInvalid(err)
	}
	return planner.Build(result, planner.Options{
		ProjectOverride: p.project,
		Labels:          labels,
	}), nil
}

func newPublishCmd(opts *rootOptions) *cobra.Command {
	var p planOptions
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish cost metrics and a dashboard to Cloud Monitoring",
		Long: `Analyze a scenario and publish its costs as custom metrics, together with a
dashboard comparing the vendors. Publishing the same scenario again adds new
points to the same series and updates the dashboard in place.

Example:
  outlay publish -f hospital.yaml --project my-gcp-project --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := buildPlan(opts, p)
			if err != nil {
				return err
			}
			if p.dryRun {
				planner.Render(opts.out, plan)
				return nil
			}
			return withClient(cmd.Context(), opts.errOut, p.quotaProject, " Publishing to Cloud Monitoring...", func(ctx context.Context, client monitoring.Client) error {
				return monitoring.ApplyPlan(ctx, client, plan)
			}, func() {
				goodColor.Fprintf(opts.out, "Published %d series for %d metrics and 1 dashboard in project %s.\n", len(plan.Series), len(plan.Metrics), plan.Project)
				fmt.Fprintf(opts.out, "Cloud Console: https://console.cloud.google.com/monitoring/dashboards?project=%s\n", plan.Project)
			})
		},
	}
	p.register(cmd, true)
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var (
		p            planOptions
		purgeMetrics bool
	)
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the dashboard published for a scenario",
		Long: `Delete the dashboard published for a scenario. Metric descriptors are
shared by every scenario and are removed only with --purge-metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := buildPlan(opts, p)
			if err != nil {
				return err
			}
			if p.dryRun {
				fmt.Fprintf(opts.out, "Delete would remove 1 dashboard in project %s.\n", plan.Project)
				if purgeMetrics {
					fmt.Fprintf(opts.out, "Delete would purge every metric descriptor under %s.\n", planner.MetricPrefix)
				}
				return nil
			}
			return withClient(cmd.Context(), opts.errOut, p.quotaProject, " Deleting managed resources...", func(ctx context.Context, client monitoring.Client) error {
				return monitoring.DeletePlan(ctx, client, plan, purgeMetrics)
			}, func() {
				fmt.Fprintf(opts.out, "Deleted managed resources for %s in project %s.\n", plan.Scenario, plan.Project)
			})
		},
	}
	p.register(cmd, true)
	cmd.Flags().BoolVar(&purgeMetrics, "purge-metrics", false, "also delete outlay metric descriptors and their data")
	return cmd
}

// withClient runs fn against a Cloud Monitoring client behind a spinner.
func withClient(ctx context.Context, errOut io.Writer, quotaProject, suffix string, fn func(context.Context, monitoring.Client) error, done func()) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := monitoring.NewGCPClient(ctx, monitoring.ClientOptions(quotaProject)...)
	if err != nil {
		return err
	}
	defer client.Close()

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(errOut))
	s.Suffix = suffix
	s.Start()
	err = fn(ctx, client)
	s.Stop()
	if err != nil {
		return err
	}
	done()
	return nil
}

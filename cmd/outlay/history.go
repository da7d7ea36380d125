package main

import (
	"fmt"
	"io"
	"time"

	"github.com/bayneri/outlay/internal/history"
	"github.com/bayneri/outlay/internal/monitoring"
	"github.com/bayneri/outlay/internal/plot"
	"github.com/bayneri/outlay/internal/report"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		project      string
		scenarioID   string
		start        string
		end          string
		last         string
		quotaProject string
		showPlot     bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show how published total costs changed over time",
		Long: `Read the total cost series published for a scenario and summarize each
vendor's first and latest value in the window.

Example:
  outlay history --project my-gcp-project --scenario hospital --last 720h --plot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lastDuration, err := history.ParseLast(last)
			if err != nil {
				return invalid(err)
			}
			from, to, err := history.ResolveWindow(start, end, lastDuration, time.Now().UTC())
			if err != nil {
				return invalid(err)
			}
			logger, err := opts.logger()
			if err != nil {
				return invalid(err)
			}
			reader, err := history.NewGCPReader(cmd.Context(), monitoring.ClientOptions(quotaProject)...)
			if err != nil {
				return err
			}
			defer reader.Close()

			result, err := history.Run(cmd.Context(), reader, history.Options{
				Project:  project,
				Scenario: scenarioID,
				Start:    from,
				End:      to,
				Logger:   logger,
			})
			if err != nil {
				return asInvalid(err)
			}
			return render(opts.out, opts.output, result, func(w io.Writer) {
				printHistory(w, result)
				if !showPlot {
					return
				}
				chart, err := plot.Trends(result.Vendors, plot.Options{Color: !color.NoColor})
				if err != nil {
					warn(opts.errOut, "plot: %v", err)
					return
				}
				fmt.Fprintf(w, "\n%s", chart)
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "GCP project ID")
	cmd.Flags().StringVar(&scenarioID, "scenario", "", "scenario id, as printed by publish --dry-run")
	cmd.Flags().StringVar(&start, "start", "", "RFC3339 start time")
	cmd.Flags().StringVar(&end, "end", "", "RFC3339 end time")
	cmd.Flags().StringVar(&last, "last", "", "relative lookback duration (e.g. 24h, 720h)")
	cmd.Flags().StringVar(&quotaProject, "quota-project", "", "project billed for Monitoring API quota")
	cmd.Flags().BoolVar(&showPlot, "plot", false, "draw each vendor's total cost over time")
	return cmd
}

func printHistory(w io.Writer, r history.Result) {
	headerColor.Fprintf(w, "Total cost history for %s in %s\n", r.Scenario, r.Project)
	mutedColor.Fprintf(w, "%s to %s\n\n", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	fmt.Fprintf(w, "%-18s %6s %16s %16s %16s\n", "VENDOR", "POINTS", "FIRST", "LATEST", "CHANGE")
	for _, v := range r.Vendors {
		fmt.Fprintf(w, "%-18s %6d %16s %16s ", v.Vendor, v.Points, report.Money(v.First), report.Money(v.Last))
		change := badColor
		if v.Change <= 0 {
			change = goodColor
		}
		change.Fprintf(w, "%16s\n", fmt.Sprintf("%s (%s)", report.Money(v.Change), report.Percent(v.ChangePercent)))
	}
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bayneri/outlay/internal/plot"
	"github.com/bayneri/outlay/internal/report"
	"github.com/bayneri/outlay/internal/sensitivity"
	"github.com/bayneri/outlay/internal/tco"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSensitivityCmd(opts *rootOptions) *cobra.Command {
	var (
		pf       paramFlags
		sweep    sensitivity.Sweep
		showPlot bool
		height   int
	)
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep one parameter and find where vendor costs cross",
		Long: fmt.Sprintf(`Evaluate every vendor's total cost at evenly spaced values of one
parameter and report the first breakeven between each pair of vendors.

Parameters: %s

Example:
  outlay sensitivity --vendors portnox,cisco-ise --parameter deviceCount --min 100 --max 5000 --steps 20 --plot`,
			strings.Join(sensitivity.Parameters(), ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(pf.vendors) < 2 {
				return invalid(fmt.Errorf("--vendors needs at least two vendors"))
			}
			c, err := opts.catalog()
			if err != nil {
				return err
			}
			logger, err := opts.logger()
			if err != nil {
				return invalid(err)
			}
			params, err := pf.resolve()
			if err != nil {
				return err
			}
			// The swept field comes from the samples, so it need not be set.
			first, err := sensitivity.Apply(params, sweep.Parameter, sweep.Min)
			if err != nil {
				return err
			}
			if err := first.Validate(); err != nil {
				return err
			}
			samples, err := sweep.Samples()
			if err != nil {
				return invalid(err)
			}
			analyzer := sensitivity.NewAnalyzer(tco.NewCalculator(c, logger), logger)
			result, err := analyzer.Run(sweep.Parameter, samples, pf.vendors, params)
			if err != nil {
				return err
			}
			return render(opts.out, opts.output, result, func(w io.Writer) {
				printSensitivity(w, result)
				if !showPlot {
					return
				}
				chart, err := plot.Sensitivity(result, plot.Options{Height: height, Color: !color.NoColor})
				if err != nil {
					warn(opts.errOut, "plot: %v", err)
					return
				}
				fmt.Fprintf(w, "\n%s", chart)
			})
		},
	}
	pf.register(cmd.Flags())
	cmd.Flags().StringVar(&sweep.Parameter, "parameter", sensitivity.DeviceCount, "parameter to sweep")
	cmd.Flags().Float64Var(&sweep.Min, "min", 0, "first sampled value")
	cmd.Flags().Float64Var(&sweep.Max, "max", 0, "last sampled value")
	cmd.Flags().IntVar(&sweep.Steps, "steps", 10, "number of samples")
	cmd.Flags().BoolVar(&showPlot, "plot", false, "draw the cost curves")
	cmd.Flags().IntVar(&height, "plot-height", 12, "plot height in lines")
	return cmd
}

func printSensitivity(w io.Writer, r sensitivity.Result) {
	headerColor.Fprintf(w, "Total cost by %s\n\n", r.ParameterName)
	fmt.Fprintf(w, "%14s", strings.ToUpper(r.ParameterName))
	for _, id := range r.VendorIDs {
		fmt.Fprintf(w, " %16s", id)
	}
	fmt.Fprintf(w, "\n")
	for i, value := range r.SampledValues {
		fmt.Fprintf(w, "%14.4g", value)
		for _, id := range r.VendorIDs {
			fmt.Fprintf(w, " %16s", report.Money(r.Series[id][i]))
		}
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "\n")
	if len(r.Breakevens) == 0 {
		mutedColor.Fprintf(w, "No breakeven within the sampled range.\n")
		return
	}
	for _, b := range r.Breakevens {
		fmt.Fprintf(w, "%s and %s break even at %s = ", b.VendorA, b.VendorB, r.ParameterName)
		goodColor.Fprintf(w, "%.4g", b.ParameterValue)
		fmt.Fprintf(w, " (%s)\n", report.Money(b.CostAtCrossover))
	}
}

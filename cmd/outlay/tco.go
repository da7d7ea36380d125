package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bayneri/outlay/internal/analyze"
	"github.com/bayneri/outlay/internal/report"
	"github.com/bayneri/outlay/internal/tco"
	"github.com/spf13/cobra"
)

type tcoOutput struct {
	Parameters  tco.Parameters       `json:"parameters"`
	Vendors     []tco.Result         `json:"vendors"`
	Comparisons []analyze.Comparison `json:"comparisons"`
}

func newTCOCmd(opts *rootOptions) *cobra.Command {
	var pf paramFlags
	cmd := &cobra.Command{
		Use:   "tco",
		Short: "Compute total cost of ownership for one or more vendors",
		Long: `Compute the initial, annual, and total cost of each vendor. The first vendor
is the product; every other vendor is compared against it.

Examples:
  # Three-year TCO for 1000 devices
  outlay tco --vendors portnox,cisco-ise --devices 1000 --years 3 --industry technology

  # Enterprise preset with a licensing uplift
  outlay tco --vendors portnox,forescout --preset enterprise --multiplier licensing=1.15 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTCO(opts, &pf)
		},
	}
	pf.register(cmd.Flags())
	return cmd
}

func runTCO(opts *rootOptions, pf *paramFlags) error {
	if len(pf.vendors) == 0 {
		return invalid(fmt.Errorf("--vendors is required"))
	}
	c, err := opts.catalog()
	if err != nil {
		return err
	}
	logger, err := opts.logger()
	if err != nil {
		return invalid(err)
	}
	params, err := pf.parameters()
	if err != nil {
		return err
	}
	results, err := tco.NewCalculator(c, logger).ComputeAll(pf.vendors, params)
	if err != nil {
		return err
	}
	for i, r := range results {
		results[i] = analyze.RoundTCO(r)
	}
	out := tcoOutput{Parameters: params, Vendors: results}
	for _, competitor := range results[1:] {
		out.Comparisons = append(out.Comparisons, analyze.Compare(results[0], competitor))
	}
	return render(opts.out, opts.output, out, func(w io.Writer) {
		printTCO(w, out)
	})
}

func printTCO(w io.Writer, out tcoOutput) {
	p := out.Parameters
	headerColor.Fprintf(w, "Total cost of ownership over %d year(s)\n", p.YearsToProject)
	mutedColor.Fprintf(w, "%d devices, %d location(s), %.0f%% legacy, industry %s, size %s\n\n",
		p.DeviceCount, p.LocationCount, p.LegacyDevicePercentage, orDash(p.Industry), p.CompanySize)
	fmt.Fprintf(w, "%-18s %-8s %16s %16s %16s %10s\n", "VENDOR", "TYPE", "INITIAL", "ANNUAL", "TOTAL", "COMPLEXITY")
	for _, r := range out.Vendors {
		fmt.Fprintf(w, "%-18s %-8s %16s %16s %16s %10.4f\n",
			r.VendorID, r.VendorType, report.Money(r.InitialCost), report.Money(r.AnnualCost), report.Money(r.TotalCost), r.ComplexityMultiplier)
	}
	if len(out.Comparisons) == 0 {
		return
	}
	fmt.Fprintf(w, "\n")
	headerColor.Fprintf(w, "Savings with %s\n", out.Vendors[0].VendorID)
	for _, c := range out.Comparisons {
		fmt.Fprintf(w, "  vs %-16s ", c.VendorID)
		savingsColor(c.Savings).Fprintf(w, "%s (%s)", report.Money(c.Savings), report.Percent(c.SavingsPercent))
		fmt.Fprintf(w, "  payback %s\n", report.Payback(c.PaybackMonths))
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

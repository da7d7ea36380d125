package main

import (
	"fmt"
	"io"

	"github.com/bayneri/outlay/internal/analyze"
	"github.com/bayneri/outlay/internal/breach"
	"github.com/bayneri/outlay/internal/catalog"
	"github.com/bayneri/outlay/internal/report"
	"github.com/spf13/cobra"
)

func newBreachCmd(opts *rootOptions) *cobra.Command {
	var (
		industry    string
		companySize string
		records     int64
		probability float64
	)
	cmd := &cobra.Command{
		Use:   "breach",
		Short: "Estimate breach exposure with and without the product",
		Long: `Estimate the cost of a data breach and its annualized risk, with and
without the product deployed. The annual probability defaults to the
industry's figure in the catalog.

Example:
  outlay breach --industry healthcare --company-size large --records 50000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if industry == "" {
				return invalid(fmt.Errorf("--industry is required"))
			}
			c, err := opts.catalog()
			if err != nil {
				return err
			}
			logger, err := opts.logger()
			if err != nil {
				return invalid(err)
			}
			params, err := breach.ParametersFor(c, industry, companySize, records)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("probability") {
				params.AnnualProbability = probability
			}
			result, err := breach.NewCalculator(c, logger).Compute(params)
			if err != nil {
				return err
			}
			return render(opts.out, opts.output, result, func(w io.Writer) {
				printBreach(w, result)
			})
		},
	}
	cmd.Flags().StringVar(&industry, "industry", "", "industry id from the catalog")
	cmd.Flags().StringVar(&companySize, "company-size", "medium", "company size id from the catalog")
	cmd.Flags().Int64Var(&records, "records", 10000, "number of data records at risk")
	cmd.Flags().Float64Var(&probability, "probability", 0, "annual breach probability (0-1), overrides the industry default")
	return cmd
}

func printBreach(w io.Writer, r *breach.Result) {
	headerColor.Fprintf(w, "Breach exposure for %s (%s), %d records\n\n", r.Parameters.Industry, r.Parameters.CompanySize, r.Parameters.DataRecords)
	fmt.Fprintf(w, "%-14s %16s %16s\n", "", "WITHOUT", "WITH")
	fmt.Fprintf(w, "%-14s %15.2f%% %15.2f%%\n", "probability", r.WithoutMitigation.AnnualProbability*100, r.WithMitigation.AnnualProbability*100)
	fmt.Fprintf(w, "%-14s %16s %16s\n", "breach cost", report.Money(r.WithoutMitigation.BreachCost), report.Money(r.WithMitigation.BreachCost))
	fmt.Fprintf(w, "%-14s %16s %16s\n", "annual risk", report.Money(r.WithoutMitigation.AnnualRisk), report.Money(r.WithMitigation.AnnualRisk))
	for _, component := range catalog.Components {
		mutedColor.Fprintf(w, "  %-12s %16s %16s\n", component, report.Money(r.WithoutMitigation.Components[component]), report.Money(r.WithMitigation.Components[component]))
	}
	fmt.Fprintf(w, "\nAnnual savings: ")
	goodColor.Fprintf(w, "%s\n", report.Money(r.Savings.Annual))
	for _, years := range analyze.Horizons(r) {
		fmt.Fprintf(w, "  over %d year(s): %s\n", years, report.Money(r.Savings.Projected[years]))
	}
}

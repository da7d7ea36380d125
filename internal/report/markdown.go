package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bayneri/outlay/internal/analyze"
	"github.com/bayneri/outlay/internal/tco"
)

type Options struct {
	Explain  bool
	Timezone *time.Location
}

func WriteMarkdownSummary(path string, result analyze.Result, opts Options) error {
	return os.WriteFile(path, []byte(MarkdownSummary(result, opts)), 0644)
}

func MarkdownSummary(result analyze.Result, opts Options) string {
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	var b strings.Builder
	p := result.Parameters

	fmt.Fprintf(&b, "# TCO analysis: %s\n\n", result.Scenario)
	if result.Project != "" {
		fmt.Fprintf(&b, "- Project: %s\n", result.Project)
	}
	fmt.Fprintf(&b, "- Product: %s\n", result.Product)
	fmt.Fprintf(&b, "- Generated: %s\n", result.GeneratedAt.In(opts.Timezone).Format(time.RFC3339))
	fmt.Fprintf(&b, "- Status: %s\n", result.Status)
	fmt.Fprintf(&b, "- Devices: %d across %d location(s), %.0f%% legacy\n", p.DeviceCount, p.LocationCount, p.LegacyDevicePercentage)
	fmt.Fprintf(&b, "- Horizon: %d year(s)\n\n", p.YearsToProject)

	fmt.Fprintf(&b, "## Total cost of ownership\n\n")
	fmt.Fprintf(&b, "| Vendor | Type | Initial | Annual | Total | Complexity | Features |\n")
	fmt.Fprintf(&b, "| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, v := range result.Vendors {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %.4f | %.2f |\n",
			v.VendorName, v.VendorType, Money(v.InitialCost), Money(v.AnnualCost), Money(v.TotalCost), v.ComplexityMultiplier, v.FeatureScore)
	}

	if len(result.Vendors) > 0 {
		fmt.Fprintf(&b, "\n### Cost breakdown\n\n")
		fmt.Fprintf(&b, "| Vendor |")
		for _, c := range tco.Categories {
			fmt.Fprintf(&b, " %s |", c)
		}
		fmt.Fprintf(&b, "\n| --- |%s\n", strings.Repeat(" --- |", len(tco.Categories)))
		for _, v := range result.Vendors {
			fmt.Fprintf(&b, "| %s |", v.VendorID)
			for _, c := range tco.Categories {
				fmt.Fprintf(&b, " %s |", Money(v.CostBreakdown[c]))
			}
			fmt.Fprintf(&b, "\n")
		}
	}

	if len(result.Comparisons) > 0 {
		fmt.Fprintf(&b, "\n## Savings with %s\n\n", result.Product)
		fmt.Fprintf(&b, "| Competitor | Competitor cost | Savings | Savings %% | Payback | ROI |\n")
		fmt.Fprintf(&b, "| --- | --- | --- | --- | --- | --- |\n")
		for _, c := range result.Comparisons {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				c.VendorID, Money(c.CompetitorCost), Money(c.Savings), Percent(c.SavingsPercent), Payback(c.PaybackMonths), Percent(c.ROIPercent))
		}
	}

	if result.Breach != nil {
		r := result.Breach
		fmt.Fprintf(&b, "\n## Breach risk\n\n")
		fmt.Fprintf(&b, "- Records at risk: %d\n", r.Parameters.DataRecords)
		fmt.Fprintf(&b, "- Annual probability: %.2f%% without, %.2f%% with %s\n",
			r.WithoutMitigation.AnnualProbability*100, r.WithMitigation.AnnualProbability*100, result.Product)
		fmt.Fprintf(&b, "- Cost of a breach: %s without, %s with\n", Money(r.WithoutMitigation.BreachCost), Money(r.WithMitigation.BreachCost))
		fmt.Fprintf(&b, "- Annual risk: %s without, %s with\n", Money(r.WithoutMitigation.AnnualRisk), Money(r.WithMitigation.AnnualRisk))
		fmt.Fprintf(&b, "- Annual savings: %s\n\n", Money(r.Savings.Annual))
		fmt.Fprintf(&b, "| Years | Without | With | Savings |\n")
		fmt.Fprintf(&b, "| --- | --- | --- | --- |\n")
		for _, y := range analyze.Horizons(r) {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", y,
				Money(r.WithoutMitigation.ProjectedCosts[y]), Money(r.WithMitigation.ProjectedCosts[y]), Money(r.Savings.Projected[y]))
		}
	}

	for _, s := range result.Sensitivity {
		fmt.Fprintf(&b, "\n## Sensitivity: %s\n\n", s.ParameterName)
		fmt.Fprintf(&b, "- Sampled %d value(s) from %.4g to %.4g\n", len(s.SampledValues), s.SampledValues[0], s.SampledValues[len(s.SampledValues)-1])
		if len(s.Breakevens) == 0 {
			fmt.Fprintf(&b, "- No breakeven within the sampled range\n")
		}
		for _, be := range s.Breakevens {
			fmt.Fprintf(&b, "- %s and %s break even at %.4g (%s)\n", be.VendorA, be.VendorB, be.ParameterValue, Money(be.CostAtCrossover))
		}
	}

	if len(result.Notes) > 0 {
		fmt.Fprintf(&b, "\n## Notes & assumptions\n")
		for _, note := range result.Notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "\n## Errors\n")
		for _, err := range result.Errors {
			fmt.Fprintf(&b, "- %s\n", err)
		}
	}

	if opts.Explain {
		fmt.Fprintf(&b, "\n## How computed\n")
		for _, v := range result.Vendors {
			if v.Explain == nil {
				continue
			}
			fmt.Fprintf(&b, "\n### %s\n\nFormula: %s\n", v.VendorName, v.Explain.Formula)
			for _, note := range v.Explain.Notes {
				fmt.Fprintf(&b, "- %s\n", note)
			}
		}
	}
	return b.String()
}

// Payback renders months to recover the extra initial spend.
func Payback(months *float64) string {
	if months == nil {
		return "never"
	}
	if *months == 0 {
		return "immediate"
	}
	return fmt.Sprintf("%.1f months", *months)
}

package analyze

import (
	"math"

	"github.com/bayneri/outlay/internal/tco"
	"github.com/shopspring/decimal"
)

// Compare measures product against competitor. Payback is the time the
// annual savings take to recover any extra initial spend; it is nil when
// the product never pays back and 0 when it costs less up front.
func Compare(product, competitor tco.Result) Comparison {
	c := Comparison{
		VendorID:       competitor.VendorID,
		ProductCost:    product.TotalCost,
		CompetitorCost: competitor.TotalCost,
		Savings:        competitor.TotalCost - product.TotalCost,
		AnnualSavings:  competitor.AnnualCost - product.AnnualCost,
	}
	if competitor.TotalCost > 0 {
		c.SavingsPercent = c.Savings / competitor.TotalCost * 100
	}
	if product.TotalCost > 0 {
		c.ROIPercent = c.Savings / product.TotalCost * 100
	}
	extra := product.InitialCost - competitor.InitialCost
	switch {
	case extra <= 0:
		zero := 0.0
		c.PaybackMonths = &zero
	case c.AnnualSavings > 0:
		months := extra / c.AnnualSavings * 12
		c.PaybackMonths = &months
	}
	return c
}

func money(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}

// RoundTCO rounds r to cents. Initial and annual cost are rounded first and
// the total is rebuilt from them, so totalCost = initialCost +
// annualCost*years and the breakdown sums to the total on the rounded values.
func RoundTCO(r tco.Result) tco.Result {
	years := decimal.NewFromInt(int64(r.YearsToProject))
	initial := cents(r.InitialCost)
	annual := cents(r.AnnualCost)

	breakdown := make(map[string]float64, len(r.CostBreakdown))
	initialParts := apportion(initial, r.CostBreakdown, decimal.NewFromInt(1),
		tco.CategoryHardware, tco.CategoryImplementation)
	annualParts := apportion(annual, r.CostBreakdown, years,
		tco.CategoryLicensing, tco.CategoryMaintenance, tco.CategoryPersonnel)
	for _, parts := range []map[string]decimal.Decimal{initialParts, annualParts} {
		for k, v := range parts {
			breakdown[k] = v.InexactFloat64()
		}
	}

	r.InitialCost = initial.InexactFloat64()
	r.AnnualCost = annual.InexactFloat64()
	r.TotalCost = initial.Add(annual.Mul(years)).InexactFloat64()
	r.DowntimeCost = money(r.DowntimeCost)
	r.ComplexityMultiplier = round4(r.ComplexityMultiplier)
	r.CostBreakdown = breakdown
	return r
}

func cents(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(2)
}

// apportion splits a rounded per-period amount over categories and scales
// each share by periods. Category amounts in breakdown already cover every
// period. The rounding residue lands on the largest share.
func apportion(amount decimal.Decimal, breakdown map[string]float64, periods decimal.Decimal, categories ...string) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal, len(categories))
	if len(breakdown) == 0 {
		return shares
	}
	sum := decimal.Zero
	largest := ""
	for _, category := range categories {
		share := decimal.NewFromFloat(breakdown[category])
		if !periods.IsZero() {
			share = share.Div(periods)
		}
		share = share.Round(2)
		shares[category] = share
		sum = sum.Add(share)
		if largest == "" || share.GreaterThan(shares[largest]) {
			largest = category
		}
	}
	shares[largest] = shares[largest].Add(amount.Sub(sum))
	for category, share := range shares {
		shares[category] = share.Mul(periods)
	}
	return shares
}

func roundComparison(c Comparison) Comparison {
	c.ProductCost = money(c.ProductCost)
	c.CompetitorCost = money(c.CompetitorCost)
	c.Savings = money(c.Savings)
	c.AnnualSavings = money(c.AnnualSavings)
	c.SavingsPercent = round4(c.SavingsPercent)
	c.ROIPercent = round4(c.ROIPercent)
	if c.PaybackMonths != nil {
		months := round4(*c.PaybackMonths)
		c.PaybackMonths = &months
	}
	return c
}

// Package sensitivity sweeps one analysis parameter across sample values
// and locates the points where two vendors' total costs cross.
package sensitivity

import (
	"fmt"
	"math"

	"github.com/bayneri/outlay/internal/calcerr"
	"github.com/bayneri/outlay/internal/tco"
	"github.com/rs/zerolog"
)

type Breakeven struct {
	VendorA         string  `json:"vendorIdA"`
	VendorB         string  `json:"vendorIdB"`
	ParameterValue  float64 `json:"parameterValueAtCrossover"`
	CostAtCrossover float64 `json:"costAtCrossover"`
}

type Result struct {
	ParameterName string               `json:"parameterName"`
	SampledValues []float64            `json:"sampledValues"`
	VendorIDs     []string             `json:"vendorIds"`
	Series        map[string][]float64 `json:"perVendorSeries"`
	Breakevens    []Breakeven          `json:"breakevens"`
}

type Analyzer struct {
	calc   *tco.Calculator
	logger zerolog.Logger
}

func NewAnalyzer(calc *tco.Calculator, logger zerolog.Logger) *Analyzer {
	return &Analyzer{calc: calc, logger: logger}
}

// Run computes total cost per vendor at each sample and reports the first
// crossover between vendorIDs[0] and every other vendor.
func (a *Analyzer) Run(parameterName string, samples []float64, vendorIDs []string, base tco.Parameters) (Result, error) {
	if _, ok := setters[parameterName]; !ok {
		return Result{}, calcerr.Invalid("parameterName", "unknown parameter %q", parameterName)
	}
	if err := validateSamples(samples); err != nil {
		return Result{}, err
	}
	if len(vendorIDs) == 0 {
		return Result{}, calcerr.Invalid("vendorIds", "at least one vendor is required")
	}
	seen := make(map[string]bool, len(vendorIDs))
	for _, id := range vendorIDs {
		if seen[id] {
			return Result{}, calcerr.Invalid("vendorIds", "duplicate vendor %q", id)
		}
		seen[id] = true
	}

	result := Result{
		ParameterName: parameterName,
		SampledValues: append([]float64(nil), samples...),
		VendorIDs:     append([]string(nil), vendorIDs...),
		Series:        make(map[string][]float64, len(vendorIDs)),
		Breakevens:    []Breakeven{},
	}
	for _, id := range vendorIDs {
		vendor, err := a.calc.Catalog().Vendor(id)
		if err != nil {
			return Result{}, err
		}
		series := make([]float64, len(samples))
		for i, value := range samples {
			params, err := Apply(base, parameterName, value)
			if err != nil {
				return Result{}, err
			}
			tcoResult, err := a.calc.Compute(vendor, params)
			if err != nil {
				return Result{}, fmt.Errorf("%s=%v: %w", parameterName, value, err)
			}
			series[i] = tcoResult.TotalCost
		}
		result.Series[id] = series
	}

	product := vendorIDs[0]
	for _, other := range vendorIDs[1:] {
		if b, ok := firstCrossover(samples, result.Series[product], result.Series[other]); ok {
			b.VendorA = product
			b.VendorB = other
			result.Breakevens = append(result.Breakevens, b)
		}
	}

	a.logger.Debug().
		Str("parameter", parameterName).
		Int("samples", len(samples)).
		Int("breakevens", len(result.Breakevens)).
		Msg("sensitivity sweep complete")
	return result, nil
}

func validateSamples(samples []float64) error {
	if len(samples) < 2 {
		return calcerr.Invalid("sampleValues", "at least 2 samples are required, got %d", len(samples))
	}
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return calcerr.Invalid("sampleValues", "sample %d is not a finite number", i)
		}
		if i > 0 && v <= samples[i-1] {
			return calcerr.Invalid("sampleValues", "samples must be strictly ascending (index %d)", i)
		}
	}
	return nil
}

// firstCrossover finds the first adjacent pair of samples where a-b
// changes sign and interpolates linearly between them. Zero counts as
// non-negative.
func firstCrossover(samples, a, b []float64) (Breakeven, bool) {
	for i := 0; i+1 < len(samples); i++ {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		if (d0 < 0) == (d1 < 0) {
			continue
		}
		t := math.Abs(d0) / (math.Abs(d0) + math.Abs(d1))
		return Breakeven{
			ParameterValue:  samples[i] + t*(samples[i+1]-samples[i]),
			CostAtCrossover: a[i] + t*(a[i+1]-a[i]),
		}, true
	}
	return Breakeven{}, false
}

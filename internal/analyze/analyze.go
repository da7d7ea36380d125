// Package analyze runs every engine for a scenario and assembles the
// versioned result the reports and exports consume.
package analyze

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bayneri/outlay/internal/breach"
	"github.com/bayneri/outlay/internal/catalog"
	"github.com/bayneri/outlay/internal/scenario"
	"github.com/bayneri/outlay/internal/sensitivity"
	"github.com/bayneri/outlay/internal/tco"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusError   = "error"
)

type Options struct {
	Explain bool
	Logger  zerolog.Logger
	// Breach shares a breach calculator, and its cache, across runs.
	Breach *breach.Calculator
	Now    func() time.Time
	NewID  func() string
}

func Run(c *catalog.Catalog, s scenario.Scenario, opts Options) (Result, error) {
	if err := s.Validate(c); err != nil {
		return Result{}, fmt.Errorf("invalid scenario: %w", err)
	}
	params, err := s.AnalysisParameters()
	if err != nil {
		return Result{}, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Breach == nil {
		opts.Breach = breach.NewCalculator(c, opts.Logger)
	}

	result := Result{
		SchemaVersion: SchemaVersion,
		RunID:         opts.NewID(),
		GeneratedAt:   opts.Now().UTC(),
		Scenario:      s.Metadata.Name,
		Project:       s.Metadata.Project,
		Labels:        s.Metadata.Labels,
		Product:       s.Product(),
		Parameters:    params,
		Errors:        []string{},
	}

	calc := tco.NewCalculator(c, opts.Logger)
	results, err := calc.ComputeAll(s.Vendors, params)
	if err != nil {
		return Result{}, err
	}
	for i, r := range results {
		results[i] = RoundTCO(r)
		vendor, err := c.Vendor(r.VendorID)
		if err != nil {
			return Result{}, err
		}
		item := VendorResult{Result: results[i], FeatureScore: round4(vendor.FeatureScore())}
		if opts.Explain {
			item.Explain = &Explain{Formula: tcoFormula(), Notes: complexityNotes(c, r)}
		}
		result.Vendors = append(result.Vendors, item)
	}

	product := results[0]
	for _, competitor := range results[1:] {
		result.Comparisons = append(result.Comparisons, roundComparison(Compare(product, competitor)))
	}

	if preset, err := scenario.PresetFor(s.Preset); err == nil {
		result.Notes = append(result.Notes, preset.Notes...)
	}
	result.Notes = append(result.Notes, comparisonNotes(result)...)

	if bp, ok, err := s.BreachParameters(c); ok {
		if err == nil {
			var impact *breach.Result
			impact, err = opts.Breach.Compute(bp)
			if err == nil {
				result.Breach = roundBreach(impact)
			}
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("breach: %v", err))
		}
	}

	analyzer := sensitivity.NewAnalyzer(calc, opts.Logger)
	for _, sweep := range s.Sensitivity {
		samples, err := sweep.Samples()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("sensitivity %s: %v", sweep.Parameter, err))
			continue
		}
		sr, err := analyzer.Run(sweep.Parameter, samples, s.Vendors, params)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("sensitivity %s: %v", sweep.Parameter, err))
			continue
		}
		result.Sensitivity = append(result.Sensitivity, sr)
		result.Notes = append(result.Notes, breakevenNotes(sr)...)
	}

	result.Status = StatusOK
	if len(result.Errors) > 0 {
		result.Status = StatusPartial
	}
	opts.Logger.Info().
		Str("scenario", result.Scenario).
		Str("run", result.RunID).
		Str("status", result.Status).
		Int("vendors", len(result.Vendors)).
		Msg("analysis complete")
	return result, nil
}

// SourcesFor records the inputs of a run.
func SourcesFor(scenarioPath, catalogPath string, s scenario.Scenario) Sources {
	if catalogPath == "" {
		catalogPath = "embedded"
	}
	return Sources{Scenario: scenarioPath, Catalog: catalogPath, Vendors: append([]string(nil), s.Vendors...)}
}

// DefaultOutDir is out/outlay-analyze/<timestamp>-<scenario>.
func DefaultOutDir(name string, now time.Time) string {
	stamp := now.In(time.UTC).Format("20060102-150405")
	return filepath.Join("out", "outlay-analyze", fmt.Sprintf("%s-%s", stamp, sanitizeSegment(name)))
}

func tcoFormula() string {
	return "initial = (hardware*devices + implementation) * complexity; annual = license*devices + maintenance + fte*fteCost; total = initial + annual*years"
}

func complexityNotes(c *catalog.Catalog, r tco.Result) []string {
	f := r.Complexity
	notes := []string{
		fmt.Sprintf("complexity factors: locations %.4g, legacy %.4g, industry %.4g, custom policies %.4g", f.Locations, f.Legacy, f.Industry, f.CustomPolicies),
		fmt.Sprintf("%s vendors absorb %.0f%% of the complexity uplift", r.VendorType, c.Complexity.Impact(r.VendorType)*100),
	}
	if r.ComplexityMultiplier >= c.Complexity.MaxMultiplier {
		notes = append(notes, fmt.Sprintf("complexity multiplier clamped to %.2g", c.Complexity.MaxMultiplier))
	}
	return notes
}

func comparisonNotes(r Result) []string {
	if len(r.Comparisons) == 0 {
		return nil
	}
	var cheaper, dearer []string
	for _, c := range r.Comparisons {
		if c.Savings >= 0 {
			cheaper = append(cheaper, c.VendorID)
		} else {
			dearer = append(dearer, c.VendorID)
		}
	}
	var notes []string
	if len(cheaper) > 0 {
		notes = append(notes, fmt.Sprintf("%s costs less than %s over %d years", r.Product, strings.Join(cheaper, ", "), r.Parameters.YearsToProject))
	}
	if len(dearer) > 0 {
		notes = append(notes, fmt.Sprintf("%s costs more than %s over %d years", r.Product, strings.Join(dearer, ", "), r.Parameters.YearsToProject))
	}
	return notes
}

func breakevenNotes(r sensitivity.Result) []string {
	var notes []string
	for _, b := range r.Breakevens {
		notes = append(notes, fmt.Sprintf("%s and %s break even at %s = %.4g", b.VendorA, b.VendorB, r.ParameterName, b.ParameterValue))
	}
	return notes
}

func roundBreach(r *breach.Result) *breach.Result {
	out := *r
	out.WithoutMitigation = roundExposure(r.WithoutMitigation)
	out.WithMitigation = roundExposure(r.WithMitigation)
	out.Savings = breach.Savings{Annual: money(r.Savings.Annual), Projected: roundHorizons(r.Savings.Projected)}
	return &out
}

func roundExposure(e breach.Exposure) breach.Exposure {
	components := make(map[string]float64, len(e.Components))
	for k, v := range e.Components {
		components[k] = money(v)
	}
	return breach.Exposure{
		AnnualProbability: round4(e.AnnualProbability),
		BreachCost:        money(e.BreachCost),
		AnnualRisk:        money(e.AnnualRisk),
		Components:        components,
		ProjectedCosts:    roundHorizons(e.ProjectedCosts),
	}
}

func roundHorizons(in map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(in))
	for k, v := range in {
		out[k] = money(v)
	}
	return out
}

// Horizons returns the projection years of a breach result in order.
func Horizons(r *breach.Result) []int {
	if r == nil {
		return nil
	}
	years := make([]int, 0, len(r.WithoutMitigation.ProjectedCosts))
	for y := range r.WithoutMitigation.ProjectedCosts {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func sanitizeSegment(input string) string {
	var out []rune
	for _, r := range strings.ToLower(input) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			out = append(out, r)
		} else if r == '.' || r == ' ' {
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "scenario"
	}
	return string(out)
}

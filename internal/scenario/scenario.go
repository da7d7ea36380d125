// Package scenario defines the TCOAnalysis document that drives a full
// analysis run.
package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bayneri/outlay/internal/breach"
	"github.com/bayneri/outlay/internal/catalog"
	"github.com/bayneri/outlay/internal/sensitivity"
	"github.com/bayneri/outlay/internal/tco"
)

const (
	APIVersionV1    = "outlay.dev/v1"
	KindTCOAnalysis = "TCOAnalysis"
)

type Scenario struct {
	APIVersion  string              `yaml:"apiVersion"`
	Kind        string              `yaml:"kind"`
	Metadata    Metadata            `yaml:"metadata"`
	Preset      string              `yaml:"preset,omitempty"`
	Parameters  Parameters          `yaml:"parameters"`
	Vendors     []string            `yaml:"vendors"`
	Breach      *Breach             `yaml:"breach,omitempty"`
	Sensitivity []sensitivity.Sweep `yaml:"sensitivity,omitempty"`
}

type Metadata struct {
	Name    string            `yaml:"name"`
	Project string            `yaml:"project,omitempty"`
	Labels  map[string]string `yaml:"labels,omitempty"`
}

// Parameters mirror tco.Parameters. Unset multipliers default to 1. The
// pointer fields accept an explicit zero that a preset will not replace.
type Parameters struct {
	DeviceCount            int         `yaml:"deviceCount"`
	LocationCount          int         `yaml:"locationCount"`
	LegacyDevicePercentage *float64    `yaml:"legacyDevicePercentage,omitempty"`
	YearsToProject         int         `yaml:"yearsToProject"`
	Industry               string      `yaml:"industry"`
	CompanySize            string      `yaml:"companySize"`
	CustomPolicies         bool        `yaml:"customPolicies"`
	CostMultipliers        Multipliers `yaml:"costMultipliers,omitempty"`
	DowntimeCostPerHour    *float64    `yaml:"downtimeCostPerHour,omitempty"`
}

type Multipliers struct {
	Hardware       *float64 `yaml:"hardware,omitempty"`
	Licensing      *float64 `yaml:"licensing,omitempty"`
	Implementation *float64 `yaml:"implementation,omitempty"`
	Maintenance    *float64 `yaml:"maintenance,omitempty"`
	FTE            *float64 `yaml:"fte,omitempty"`
}

// Breach enables the breach impact section. Industry and company size come
// from the parameters; a missing probability uses the industry default.
type Breach struct {
	DataRecords       int64    `yaml:"dataRecords"`
	AnnualProbability *float64 `yaml:"annualProbability,omitempty"`
}

// Product is the vendor every other vendor is compared against.
func (s Scenario) Product() string {
	if len(s.Vendors) == 0 {
		return ""
	}
	return s.Vendors[0]
}

func (m Multipliers) resolve() tco.Multipliers {
	out := tco.DefaultMultipliers()
	out.Hardware = valueOr(m.Hardware, out.Hardware)
	out.Licensing = valueOr(m.Licensing, out.Licensing)
	out.Implementation = valueOr(m.Implementation, out.Implementation)
	out.Maintenance = valueOr(m.Maintenance, out.Maintenance)
	out.FTE = valueOr(m.FTE, out.FTE)
	return out
}

// AnalysisParameters applies the preset to unset fields and resolves the
// multipliers.
func (s Scenario) AnalysisParameters() (tco.Parameters, error) {
	p := s.Parameters
	params := tco.Parameters{
		DeviceCount:            p.DeviceCount,
		LocationCount:          p.LocationCount,
		LegacyDevicePercentage: valueOr(p.LegacyDevicePercentage, 0),
		YearsToProject:         p.YearsToProject,
		Industry:               p.Industry,
		CompanySize:            p.CompanySize,
		CustomPolicies:         p.CustomPolicies,
		CostMultipliers:        p.CostMultipliers.resolve(),
		DowntimeCostPerHour:    valueOr(p.DowntimeCostPerHour, 0),
	}
	if s.Preset == "" {
		return params, nil
	}
	preset, err := PresetFor(s.Preset)
	if err != nil {
		return tco.Parameters{}, err
	}
	params = preset.Apply(params)
	if p.LegacyDevicePercentage != nil {
		params.LegacyDevicePercentage = *p.LegacyDevicePercentage
	}
	if p.DowntimeCostPerHour != nil {
		params.DowntimeCostPerHour = *p.DowntimeCostPerHour
	}
	return params, nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// BreachParameters returns false when the scenario has no breach section.
func (s Scenario) BreachParameters(c *catalog.Catalog) (breach.Parameters, bool, error) {
	if s.Breach == nil {
		return breach.Parameters{}, false, nil
	}
	params, err := s.AnalysisParameters()
	if err != nil {
		return breach.Parameters{}, true, err
	}
	bp, err := breach.ParametersFor(c, params.Industry, params.CompanySize, s.Breach.DataRecords)
	if err != nil {
		return breach.Parameters{}, true, err
	}
	if s.Breach.AnnualProbability != nil {
		bp.AnnualProbability = *s.Breach.AnnualProbability
	}
	return bp, true, nil
}

// Validate reports every problem in the document against the catalog.
func (s Scenario) Validate(c *catalog.Catalog) error {
	var errs []string
	if s.APIVersion != APIVersionV1 {
		errs = append(errs, fmt.Sprintf("apiVersion must be %q", APIVersionV1))
	}
	if s.Kind != KindTCOAnalysis {
		errs = append(errs, fmt.Sprintf("kind must be %q", KindTCOAnalysis))
	}
	if strings.TrimSpace(s.Metadata.Name) == "" {
		errs = append(errs, "metadata.name is required")
	}
	for k, v := range s.Metadata.Labels {
		if k == "" || v == "" {
			errs = append(errs, fmt.Sprintf("metadata.labels: invalid label %q=%q", k, v))
		}
	}

	if len(s.Vendors) == 0 {
		errs = append(errs, "at least one vendor is required")
	}
	seen := map[string]bool{}
	for i, id := range s.Vendors {
		if seen[id] {
			errs = append(errs, fmt.Sprintf("vendors[%d]: duplicate vendor %q", i, id))
		}
		seen[id] = true
		if _, err := c.Vendor(id); err != nil {
			errs = append(errs, fmt.Sprintf("vendors[%d]: %v", i, err))
		}
	}

	params, err := s.AnalysisParameters()
	if err != nil {
		errs = append(errs, fmt.Sprintf("preset: %v", err))
	} else {
		if err := params.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("parameters: %v", err))
		}
		if _, err := c.Industry(params.Industry); err != nil {
			errs = append(errs, fmt.Sprintf("parameters.industry: %v", err))
		}
		if _, err := c.CompanySize(params.CompanySize); err != nil {
			errs = append(errs, fmt.Sprintf("parameters.companySize: %v", err))
		}
	}

	if s.Breach != nil {
		if s.Breach.DataRecords < 0 {
			errs = append(errs, "breach.dataRecords must not be negative")
		}
		if p := s.Breach.AnnualProbability; p != nil && (*p < 0 || *p > 1) {
			errs = append(errs, "breach.annualProbability must be between 0 and 1")
		}
	}

	for i, sweep := range s.Sensitivity {
		prefix := fmt.Sprintf("sensitivity[%d]", i)
		if _, err := sensitivity.Apply(params, sweep.Parameter, sweep.Min); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", prefix, err))
		}
		if _, err := sweep.Samples(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", prefix, err))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

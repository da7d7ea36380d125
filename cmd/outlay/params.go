package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bayneri/outlay/internal/scenario"
	"github.com/bayneri/outlay/internal/tco"
	"github.com/spf13/pflag"
)

// paramFlags binds the analysis parameters shared by tco and sensitivity.
type paramFlags struct {
	preset         string
	devices        int
	locations      int
	legacy         float64
	years          int
	industry       string
	companySize    string
	customPolicies bool
	downtimeCost   float64
	multipliers    map[string]string
	vendors        []string

	flags *pflag.FlagSet
}

func (p *paramFlags) register(fs *pflag.FlagSet) {
	p.flags = fs
	fs.StringVar(&p.preset, "preset", "", fmt.Sprintf("fill unset parameters from a preset (%s)", strings.Join(scenario.PresetNames(), ", ")))
	fs.IntVar(&p.devices, "devices", 0, "number of managed devices")
	fs.IntVar(&p.locations, "locations", 0, "number of sites")
	fs.Float64Var(&p.legacy, "legacy", 0, "percentage of legacy devices (0-100)")
	fs.IntVar(&p.years, "years", 0, "projection horizon in years")
	fs.StringVar(&p.industry, "industry", "", "industry id from the catalog")
	fs.StringVar(&p.companySize, "company-size", "", "company size id from the catalog")
	fs.BoolVar(&p.customPolicies, "custom-policies", false, "deployment needs custom policies")
	fs.Float64Var(&p.downtimeCost, "downtime-cost", 0, "cost of one hour of downtime")
	fs.StringToStringVar(&p.multipliers, "multiplier", nil, "cost multipliers, e.g. licensing=1.2,fte=0.8")
	fs.StringSliceVar(&p.vendors, "vendors", nil, "vendor ids to compare, product first")
}

// parameters returns the validated flag parameters.
func (p *paramFlags) parameters() (tco.Parameters, error) {
	params, err := p.resolve()
	if err != nil {
		return tco.Parameters{}, err
	}
	if err := params.Validate(); err != nil {
		return tco.Parameters{}, err
	}
	return params, nil
}

// resolve fills unset fields from the preset when one is named, and
// otherwise from a single site, three years and a medium company.
func (p *paramFlags) resolve() (tco.Parameters, error) {
	params := tco.Parameters{
		DeviceCount:            p.devices,
		LocationCount:          p.locations,
		LegacyDevicePercentage: p.legacy,
		YearsToProject:         p.years,
		Industry:               p.industry,
		CompanySize:            p.companySize,
		CustomPolicies:         p.customPolicies,
		CostMultipliers:        tco.DefaultMultipliers(),
		DowntimeCostPerHour:    p.downtimeCost,
	}
	for key, raw := range p.multipliers {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return tco.Parameters{}, invalid(fmt.Errorf("multiplier %s: %w", key, err))
		}
		switch strings.ToLower(key) {
		case "hardware":
			params.CostMultipliers.Hardware = value
		case "licensing":
			params.CostMultipliers.Licensing = value
		case "implementation":
			params.CostMultipliers.Implementation = value
		case "maintenance":
			params.CostMultipliers.Maintenance = value
		case "fte":
			params.CostMultipliers.FTE = value
		default:
			return tco.Parameters{}, invalid(fmt.Errorf("unknown multiplier %q", key))
		}
	}
	if p.preset != "" {
		preset, err := scenario.PresetFor(p.preset)
		if err != nil {
			return tco.Parameters{}, invalid(err)
		}
		params = preset.Apply(params)
		if p.changed("legacy") {
			params.LegacyDevicePercentage = p.legacy
		}
		if p.changed("downtime-cost") {
			params.DowntimeCostPerHour = p.downtimeCost
		}
	}
	if params.LocationCount == 0 {
		params.LocationCount = 1
	}
	if params.YearsToProject == 0 {
		params.YearsToProject = 3
	}
	if params.CompanySize == "" {
		params.CompanySize = "medium"
	}
	return params, nil
}

func (p *paramFlags) changed(name string) bool {
	return p.flags != nil && p.flags.Changed(name)
}

package sensitivity

import (
	"math"
	"sort"

	"github.com/bayneri/outlay/internal/calcerr"
	"github.com/bayneri/outlay/internal/tco"
)

// Parameter names accepted by Run.
const (
	DeviceCount            = "deviceCount"
	LocationCount          = "locationCount"
	LegacyDevicePercentage = "legacyDevicePercentage"
	YearsToProject         = "yearsToProject"
	DowntimeCostPerHour    = "downtimeCostPerHour"
	HardwareCost           = "hardwareCost"
	LicensingCost          = "licensingCost"
	ImplementationCost     = "implementationCost"
	MaintenanceCost        = "maintenanceCost"
	FTECost                = "fteCost"
)

type setter func(p *tco.Parameters, value float64) error

var setters = map[string]setter{
	DeviceCount: func(p *tco.Parameters, v float64) error {
		p.DeviceCount = int(math.Round(v))
		return nil
	},
	LocationCount: func(p *tco.Parameters, v float64) error {
		p.LocationCount = int(math.Round(v))
		return nil
	},
	LegacyDevicePercentage: func(p *tco.Parameters, v float64) error {
		p.LegacyDevicePercentage = v
		return nil
	},
	YearsToProject: func(p *tco.Parameters, v float64) error {
		if v != math.Trunc(v) {
			return calcerr.Invalid(YearsToProject, "samples must be whole years, got %v", v)
		}
		p.YearsToProject = int(v)
		return nil
	},
	DowntimeCostPerHour: func(p *tco.Parameters, v float64) error {
		p.DowntimeCostPerHour = v
		return nil
	},
	HardwareCost: func(p *tco.Parameters, v float64) error {
		p.CostMultipliers.Hardware = v
		return nil
	},
	LicensingCost: func(p *tco.Parameters, v float64) error {
		p.CostMultipliers.Licensing = v
		return nil
	},
	ImplementationCost: func(p *tco.Parameters, v float64) error {
		p.CostMultipliers.Implementation = v
		return nil
	},
	MaintenanceCost: func(p *tco.Parameters, v float64) error {
		p.CostMultipliers.Maintenance = v
		return nil
	},
	FTECost: func(p *tco.Parameters, v float64) error {
		p.CostMultipliers.FTE = v
		return nil
	},
}

// Parameters lists the sweepable parameter names in sorted order.
func Parameters() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply returns a copy of base with the named parameter set to value.
func Apply(base tco.Parameters, name string, value float64) (tco.Parameters, error) {
	set, ok := setters[name]
	if !ok {
		return tco.Parameters{}, calcerr.Invalid("parameterName", "unknown parameter %q", name)
	}
	params := base
	if err := set(&params, value); err != nil {
		return tco.Parameters{}, err
	}
	return params, nil
}

package scenario

import (
	"fmt"
	"sort"

	"github.com/bayneri/outlay/internal/tco"
)

// Preset supplies defaults for parameters a scenario leaves unset, plus
// notes that are carried into the analysis report.
type Preset struct {
	Name                   string
	DeviceCount            int
	LocationCount          int
	LegacyDevicePercentage float64
	YearsToProject         int
	CompanySize            string
	DowntimeCostPerHour    float64
	Notes                  []string
}

var presets = map[string]Preset{
	"smb": {
		Name:                   "smb",
		DeviceCount:            500,
		LocationCount:          1,
		LegacyDevicePercentage: 10,
		YearsToProject:         3,
		CompanySize:            "small",
		DowntimeCostPerHour:    1000,
		Notes: []string{
			"Fixed implementation fees dominate at this scale; compare initial costs before annual ones.",
		},
	},
	"midmarket": {
		Name:                   "midmarket",
		DeviceCount:            2500,
		LocationCount:          5,
		LegacyDevicePercentage: 20,
		YearsToProject:         3,
		CompanySize:            "medium",
		DowntimeCostPerHour:    5000,
		Notes: []string{
			"Personnel costs often outweigh licensing for on-premises deployments of this size.",
		},
	},
	"enterprise": {
		Name:                   "enterprise",
		DeviceCount:            10000,
		LocationCount:          25,
		LegacyDevicePercentage: 30,
		YearsToProject:         5,
		CompanySize:            "large",
		DowntimeCostPerHour:    15000,
		Notes: []string{
			"Location and legacy factors reach their caps quickly; the complexity multiplier is bounded.",
			"Per-device licensing drives the slope of every cost curve at this scale.",
		},
	},
}

func PresetFor(name string) (Preset, error) {
	if p, ok := presets[name]; ok {
		return p, nil
	}
	return Preset{}, fmt.Errorf("preset must be one of %v", PresetNames())
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply fills the zero-valued fields of params. Callers that can tell an
// explicit zero from an unset field restore it afterwards.
func (p Preset) Apply(params tco.Parameters) tco.Parameters {
	if params.DeviceCount == 0 {
		params.DeviceCount = p.DeviceCount
	}
	if params.LocationCount == 0 {
		params.LocationCount = p.LocationCount
	}
	if params.LegacyDevicePercentage == 0 {
		params.LegacyDevicePercentage = p.LegacyDevicePercentage
	}
	if params.YearsToProject == 0 {
		params.YearsToProject = p.YearsToProject
	}
	if params.CompanySize == "" {
		params.CompanySize = p.CompanySize
	}
	if params.DowntimeCostPerHour == 0 {
		params.DowntimeCostPerHour = p.DowntimeCostPerHour
	}
	return params
}

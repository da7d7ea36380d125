package tco

import (
	"math"

	"github.com/bayneri/outlay/internal/calcerr"
)

// Multipliers scale each baseline cost category. 1.0 leaves the vendor's
// baseline unchanged.
type Multipliers struct {
	Hardware       float64 `yaml:"hardware" json:"hardware"`
	Licensing      float64 `yaml:"licensing" json:"licensing"`
	Implementation float64 `yaml:"implementation" json:"implementation"`
	Maintenance    float64 `yaml:"maintenance" json:"maintenance"`
	FTE            float64 `yaml:"fte" json:"fte"`
}

func DefaultMultipliers() Multipliers {
	return Multipliers{Hardware: 1, Licensing: 1, Implementation: 1, Maintenance: 1, FTE: 1}
}

// Parameters are the inputs of one analysis. A recalculation replaces the
// whole value; nothing mutates it in place.
type Parameters struct {
	DeviceCount            int         `yaml:"deviceCount" json:"deviceCount"`
	LocationCount          int         `yaml:"locationCount" json:"locationCount"`
	LegacyDevicePercentage float64     `yaml:"legacyDevicePercentage" json:"legacyDevicePercentage"`
	YearsToProject         int         `yaml:"yearsToProject" json:"yearsToProject"`
	Industry               string      `yaml:"industry" json:"industry"`
	CompanySize            string      `yaml:"companySize" json:"companySize"`
	CustomPolicies         bool        `yaml:"customPolicies" json:"customPolicies"`
	CostMultipliers        Multipliers `yaml:"costMultipliers" json:"costMultipliers"`
	DowntimeCostPerHour    float64     `yaml:"downtimeCostPerHour" json:"downtimeCostPerHour"`
}

// Validate fails on the first out-of-range field.
func (p Parameters) Validate() error {
	if p.DeviceCount <= 0 {
		return calcerr.Invalid("deviceCount", "must be positive, got %d", p.DeviceCount)
	}
	if p.YearsToProject < 1 {
		return calcerr.Invalid("yearsToProject", "must be a positive integer, got %d", p.YearsToProject)
	}
	if p.LocationCount < 1 {
		return calcerr.Invalid("locationCount", "must be at least 1, got %d", p.LocationCount)
	}
	if invalidNumber(p.LegacyDevicePercentage) || p.LegacyDevicePercentage < 0 || p.LegacyDevicePercentage > 100 {
		return calcerr.Invalid("legacyDevicePercentage", "must be between 0 and 100, got %v", p.LegacyDevicePercentage)
	}
	if invalidNumber(p.DowntimeCostPerHour) || p.DowntimeCostPerHour < 0 {
		return calcerr.Invalid("downtimeCostPerHour", "must not be negative, got %v", p.DowntimeCostPerHour)
	}
	m := p.CostMultipliers
	multipliers := []struct {
		field string
		value float64
	}{
		{"costMultipliers.hardware", m.Hardware},
		{"costMultipliers.licensing", m.Licensing},
		{"costMultipliers.implementation", m.Implementation},
		{"costMultipliers.maintenance", m.Maintenance},
		{"costMultipliers.fte", m.FTE},
	}
	for _, mult := range multipliers {
		if invalidNumber(mult.value) || mult.value < 0 {
			return calcerr.Invalid(mult.field, "must not be negative, got %v", mult.value)
		}
	}
	return nil
}

func invalidNumber(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

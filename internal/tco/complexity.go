package tco

import "github.com/bayneri/outlay/internal/catalog"

// ComplexityFactors are the clamped contributions that make up the
// complexity uplift, before the vendor type impact is applied.
type ComplexityFactors struct {
	Locations      float64 `json:"locations"`
	Legacy         float64 `json:"legacy"`
	Industry       float64 `json:"industry"`
	CustomPolicies float64 `json:"customPolicies"`
}

func (f ComplexityFactors) Sum() float64 {
	return f.Locations + f.Legacy + f.Industry + f.CustomPolicies
}

// complexityFactors clamps each factor to its own cap.
func complexityFactors(policy catalog.ComplexityPolicy, params Parameters, industryFactor float64) ComplexityFactors {
	f := ComplexityFactors{
		Locations: capped(float64(params.LocationCount-1)*policy.PerAdditionalLocation, policy.LocationCap),
		Legacy:    capped(params.LegacyDevicePercentage/100*policy.LegacyWeight, policy.LegacyCap),
		Industry:  capped(industryFactor, policy.IndustryCap),
	}
	if params.CustomPolicies {
		f.CustomPolicies = policy.CustomPolicyFactor
	}
	return f
}

// complexityMultiplier is 1 plus the type-scaled uplift, clamped to the
// policy maximum.
func complexityMultiplier(policy catalog.ComplexityPolicy, vendorType catalog.VendorType, factors ComplexityFactors) float64 {
	m := 1 + factors.Sum()*policy.Impact(vendorType)
	if policy.MaxMultiplier >= 1 && m > policy.MaxMultiplier {
		return policy.MaxMultiplier
	}
	return m
}

func capped(value, limit float64) float64 {
	if value < 0 {
		return 0
	}
	if value > limit {
		return limit
	}
	return value
}

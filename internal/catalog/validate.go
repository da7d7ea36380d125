package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const fractionTolerance = 1e-6

func (c *Catalog) Validate() error {
	var errs []string
	if len(c.Vendors) == 0 {
		errs = append(errs, "at least one vendor is required")
	}
	seen := map[string]bool{}
	for i, v := range c.Vendors {
		prefix := fmt.Sprintf("vendors[%d]", i)
		if strings.TrimSpace(v.ID) == "" {
			errs = append(errs, fmt.Sprintf("%s.id is required", prefix))
		} else if seen[v.ID] {
			errs = append(errs, fmt.Sprintf("%s.id %q is duplicated", prefix, v.ID))
		}
		seen[v.ID] = true
		if v.Type != VendorCloud && v.Type != VendorOnPrem {
			errs = append(errs, fmt.Sprintf("%s.type must be %q or %q", prefix, VendorCloud, VendorOnPrem))
		}
		errs = append(errs, validateCosts(prefix+".costs", v.Costs)...)
		if msg := checkAmount(v.DowntimeHoursPerYear); msg != "" {
			errs = append(errs, fmt.Sprintf("%s.downtimeHoursPerYear %s", prefix, msg))
		}
		for key, rating := range v.Features {
			if rating < 0 || rating > 10 {
				errs = append(errs, fmt.Sprintf("%s.features.%s must be between 0 and 10", prefix, key))
			}
		}
	}

	seen = map[string]bool{}
	for i, ind := range c.Industries {
		prefix := fmt.Sprintf("industries[%d]", i)
		if strings.TrimSpace(ind.ID) == "" {
			errs = append(errs, fmt.Sprintf("%s.id is required", prefix))
		} else if seen[ind.ID] {
			errs = append(errs, fmt.Sprintf("%s.id %q is duplicated", prefix, ind.ID))
		}
		seen[ind.ID] = true
		if negative(ind.ComplexityFactor) || negative(ind.PerRecordCost) || negative(ind.AverageBreachCost) {
			errs = append(errs, fmt.Sprintf("%s costs and factors must be finite and not negative", prefix))
		}
		if outside(ind.BreachProbability, 0, 1) {
			errs = append(errs, fmt.Sprintf("%s.breachProbability must be between 0 and 1", prefix))
		}
		for key, m := range ind.ComponentMultipliers {
			if !knownComponent(key) {
				errs = append(errs, fmt.Sprintf("%s.componentMultipliers has unknown component %q", prefix, key))
			}
			if msg := checkAmount(m); msg != "" {
				errs = append(errs, fmt.Sprintf("%s.componentMultipliers.%s %s", prefix, key, msg))
			}
		}
	}

	seen = map[string]bool{}
	for i, size := range c.CompanySizes {
		prefix := fmt.Sprintf("companySizes[%d]", i)
		if strings.TrimSpace(size.ID) == "" {
			errs = append(errs, fmt.Sprintf("%s.id is required", prefix))
		} else if seen[size.ID] {
			errs = append(errs, fmt.Sprintf("%s.id %q is duplicated", prefix, size.ID))
		}
		seen[size.ID] = true
		if !finite(size.BreachMultiplier) || size.BreachMultiplier <= 0 {
			errs = append(errs, fmt.Sprintf("%s.breachMultiplier must be positive", prefix))
		}
	}

	errs = append(errs, c.Complexity.validate()...)
	errs = append(errs, c.Breach.validate()...)

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateCosts(prefix string, costs Costs) []string {
	var errs []string
	fields := []struct {
		name  string
		value float64
	}{
		{"hardwarePerDevice", costs.HardwarePerDevice},
		{"licensePerDeviceYear", costs.LicensePerDeviceYear},
		{"implementationFlat", costs.ImplementationFlat},
		{"maintenancePerYear", costs.MaintenancePerYear},
		{"fteCount", costs.FTECount},
		{"fteCostPerYear", costs.FTECostPerYear},
	}
	for _, field := range fields {
		if msg := checkAmount(field.value); msg != "" {
			errs = append(errs, fmt.Sprintf("%s.%s %s", prefix, field.name, msg))
		}
	}
	return errs
}

func (p ComplexityPolicy) validate() []string {
	var errs []string
	if !finite(p.MaxMultiplier) || p.MaxMultiplier < 1 {
		errs = append(errs, "complexity.maxMultiplier must be at least 1")
	}
	if negative(p.PerAdditionalLocation) || negative(p.LocationCap) || negative(p.LegacyWeight) ||
		negative(p.LegacyCap) || negative(p.IndustryCap) || negative(p.CustomPolicyFactor) {
		errs = append(errs, "complexity factors and caps must be finite and not negative")
	}
	for _, t := range []VendorType{VendorCloud, VendorOnPrem} {
		impact, ok := p.VendorTypeImpact[t]
		if !ok {
			errs = append(errs, fmt.Sprintf("complexity.vendorTypeImpact.%s is required", t))
			continue
		}
		if outside(impact, 0, 1) {
			errs = append(errs, fmt.Sprintf("complexity.vendorTypeImpact.%s must be between 0 and 1", t))
		}
	}
	return errs
}

func (p BreachPolicy) validate() []string {
	var errs []string
	if p.RecordThreshold <= 0 {
		errs = append(errs, "breach.recordThreshold must be positive")
	}
	if len(p.Horizons) == 0 {
		errs = append(errs, "breach.horizons must list at least one horizon")
	}
	for _, h := range p.Horizons {
		if h <= 0 {
			errs = append(errs, fmt.Sprintf("breach.horizons value %d must be positive", h))
		}
	}
	sum := 0.0
	for _, component := range Components {
		fraction, ok := p.ComponentFractions[component]
		if !ok {
			errs = append(errs, fmt.Sprintf("breach.componentFractions.%s is required", component))
			continue
		}
		if msg := checkAmount(fraction); msg != "" {
			errs = append(errs, fmt.Sprintf("breach.componentFractions.%s %s", component, msg))
		}
		sum += fraction
	}
	for key := range p.ComponentFractions {
		if !knownComponent(key) {
			errs = append(errs, fmt.Sprintf("breach.componentFractions has unknown component %q", key))
		}
	}
	if len(p.ComponentFractions) > 0 && math.Abs(sum-1) > fractionTolerance {
		errs = append(errs, fmt.Sprintf("breach.componentFractions must sum to 1, got %.4f", sum))
	}
	m := p.Mitigation
	factors := []struct {
		name  string
		value float64
	}{
		{"probabilityReduction", m.ProbabilityReduction},
		{"impactReduction", m.ImpactReduction},
		{"scopeReduction", m.ScopeReduction},
		{"responseImprovement", m.ResponseImprovement},
	}
	for _, factor := range factors {
		if outside(factor.value, 0, 1) {
			errs = append(errs, fmt.Sprintf("breach.mitigation.%s must be between 0 and 1", factor.name))
		}
	}
	return errs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func negative(v float64) bool {
	return !finite(v) || v < 0
}

// outside reports whether v falls outside [lo, hi]; NaN is always outside.
func outside(v, lo, hi float64) bool {
	return !(v >= lo && v <= hi)
}

func checkAmount(v float64) string {
	switch {
	case !finite(v):
		return "must be finite"
	case v < 0:
		return "must not be negative"
	}
	return ""
}

func knownComponent(name string) bool {
	for _, component := range Components {
		if component == name {
			return true
		}
	}
	return false
}

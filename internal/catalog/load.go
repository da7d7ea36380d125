package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultData []byte

// Default parses the catalog shipped with the binary.
func Default() (*Catalog, error) {
	c, err := Parse(defaultData)
	if err != nil {
		return nil, fmt.Errorf("default catalog: %w", err)
	}
	return c, nil
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &c, nil
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// LoadWithOverride returns the default catalog with the file at path merged
// over it. An empty path yields the default catalog. The result is
// validated.
func LoadWithOverride(path string) (*Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		override, err := Load(path)
		if err != nil {
			return nil, err
		}
		c.Merge(override)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// Merge applies entries from source onto c. Vendors, industries, and
// company sizes replace entries with the same id or are appended. Policy
// fields are overridden only when source sets them.
func (c *Catalog) Merge(source *Catalog) {
	if source == nil {
		return
	}
	for _, v := range source.Vendors {
		c.Vendors = upsert(c.Vendors, v, func(e VendorProfile) string { return e.ID })
	}
	for _, ind := range source.Industries {
		c.Industries = upsert(c.Industries, ind, func(e Industry) string { return e.ID })
	}
	for _, size := range source.CompanySizes {
		c.CompanySizes = upsert(c.CompanySizes, size, func(e CompanySize) string { return e.ID })
	}
	c.Complexity.merge(&source.Complexity)
	c.Breach.merge(&source.Breach)
}

func upsert[T any](items []T, item T, id func(T) string) []T {
	for i := range items {
		if id(items[i]) == id(item) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func (p *ComplexityPolicy) merge(source *ComplexityPolicy) {
	if source.PerAdditionalLocation > 0 {
		p.PerAdditionalLocation = source.PerAdditionalLocation
	}
	if source.LocationCap > 0 {
		p.LocationCap = source.LocationCap
	}
	if source.LegacyWeight > 0 {
		p.LegacyWeight = source.LegacyWeight
	}
	if source.LegacyCap > 0 {
		p.LegacyCap = source.LegacyCap
	}
	if source.IndustryCap > 0 {
		p.IndustryCap = source.IndustryCap
	}
	if source.CustomPolicyFactor > 0 {
		p.CustomPolicyFactor = source.CustomPolicyFactor
	}
	if source.MaxMultiplier > 0 {
		p.MaxMultiplier = source.MaxMultiplier
	}
	if len(source.VendorTypeImpact) > 0 && p.VendorTypeImpact == nil {
		p.VendorTypeImpact = map[VendorType]float64{}
	}
	for k, v := range source.VendorTypeImpact {
		p.VendorTypeImpact[k] = v
	}
}

func (p *BreachPolicy) merge(source *BreachPolicy) {
	if source.RecordThreshold > 0 {
		p.RecordThreshold = source.RecordThreshold
	}
	if len(source.Horizons) > 0 {
		p.Horizons = source.Horizons
	}
	if len(source.ComponentFractions) > 0 && p.ComponentFractions == nil {
		p.ComponentFractions = map[string]float64{}
	}
	for k, v := range source.ComponentFractions {
		p.ComponentFractions[k] = v
	}
	m := source.Mitigation
	if m.ProbabilityReduction > 0 {
		p.Mitigation.ProbabilityReduction = m.ProbabilityReduction
	}
	if m.ImpactReduction > 0 {
		p.Mitigation.ImpactReduction = m.ImpactReduction
	}
	if m.ScopeReduction > 0 {
		p.Mitigation.ScopeReduction = m.ScopeReduction
	}
	if m.ResponseImprovement > 0 {
		p.Mitigation.ResponseImprovement = m.ResponseImprovement
	}
}

// Package catalog holds the reference tables the cost engines read:
// vendor cost profiles, industry and company-size coefficients, and the
// complexity and breach policy constants. Tables are loaded from YAML and
// never mutated after loading.
package catalog

import (
	"maps"
	"sort"

	"github.com/bayneri/outlay/internal/calcerr"
)

type VendorType string

const (
	VendorCloud  VendorType = "cloud"
	VendorOnPrem VendorType = "on-prem"
)

// Breach cost components. Fractions and industry multipliers are keyed by
// these names.
const (
	ComponentDetection    = "detection"
	ComponentResponse     = "response"
	ComponentNotification = "notification"
	ComponentLostBusiness = "lostBusiness"
	ComponentRegulatory   = "regulatory"
	ComponentReputation   = "reputation"
)

var Components = []string{
	ComponentDetection,
	ComponentResponse,
	ComponentNotification,
	ComponentLostBusiness,
	ComponentRegulatory,
	ComponentReputation,
}

type Catalog struct {
	Vendors      []VendorProfile  `yaml:"vendors" json:"vendors"`
	Industries   []Industry       `yaml:"industries" json:"industries"`
	CompanySizes []CompanySize    `yaml:"companySizes" json:"companySizes"`
	Complexity   ComplexityPolicy `yaml:"complexity" json:"complexity"`
	Breach       BreachPolicy     `yaml:"breach" json:"breach"`
}

type VendorProfile struct {
	ID                   string         `yaml:"id" json:"id"`
	Name                 string         `yaml:"name" json:"name"`
	Type                 VendorType     `yaml:"type" json:"type"`
	Costs                Costs          `yaml:"costs" json:"costs"`
	DowntimeHoursPerYear float64        `yaml:"downtimeHoursPerYear" json:"downtimeHoursPerYear"`
	Features             map[string]int `yaml:"features" json:"features"`
}

// Costs are the baseline coefficients before any multiplier is applied.
type Costs struct {
	HardwarePerDevice    float64 `yaml:"hardwarePerDevice" json:"hardwarePerDevice"`
	LicensePerDeviceYear float64 `yaml:"licensePerDeviceYear" json:"licensePerDeviceYear"`
	ImplementationFlat   float64 `yaml:"implementationFlat" json:"implementationFlat"`
	MaintenancePerYear   float64 `yaml:"maintenancePerYear" json:"maintenancePerYear"`
	FTECount             float64 `yaml:"fteCount" json:"fteCount"`
	FTECostPerYear       float64 `yaml:"fteCostPerYear" json:"fteCostPerYear"`
}

type Industry struct {
	ID                   string             `yaml:"id" json:"id"`
	Name                 string             `yaml:"name" json:"name"`
	ComplexityFactor     float64            `yaml:"complexityFactor" json:"complexityFactor"`
	PerRecordCost        float64            `yaml:"perRecordCost" json:"perRecordCost"`
	AverageBreachCost    float64            `yaml:"averageBreachCost" json:"averageBreachCost"`
	BreachProbability    float64            `yaml:"breachProbability" json:"breachProbability"`
	ComponentMultipliers map[string]float64 `yaml:"componentMultipliers" json:"componentMultipliers,omitempty"`
}

// ComponentMultiplier returns the industry adjustment for a breach cost
// component, 1 when the industry does not adjust it.
func (i Industry) ComponentMultiplier(component string) float64 {
	if m, ok := i.ComponentMultipliers[component]; ok && m > 0 {
		return m
	}
	return 1
}

type CompanySize struct {
	ID               string  `yaml:"id" json:"id"`
	Name             string  `yaml:"name" json:"name"`
	BreachMultiplier float64 `yaml:"breachMultiplier" json:"breachMultiplier"`
}

// ComplexityPolicy configures the deployment complexity multiplier. Each
// factor is clamped to its own cap before the factors are summed, the sum
// is scaled by the vendor type impact, and the result is clamped to
// MaxMultiplier.
type ComplexityPolicy struct {
	PerAdditionalLocation float64                `yaml:"perAdditionalLocation" json:"perAdditionalLocation"`
	LocationCap           float64                `yaml:"locationCap" json:"locationCap"`
	LegacyWeight          float64                `yaml:"legacyWeight" json:"legacyWeight"`
	LegacyCap             float64                `yaml:"legacyCap" json:"legacyCap"`
	IndustryCap           float64                `yaml:"industryCap" json:"industryCap"`
	CustomPolicyFactor    float64                `yaml:"customPolicyFactor" json:"customPolicyFactor"`
	MaxMultiplier         float64                `yaml:"maxMultiplier" json:"maxMultiplier"`
	VendorTypeImpact      map[VendorType]float64 `yaml:"vendorTypeImpact" json:"vendorTypeImpact"`
}

// Impact returns the share of the complexity uplift a vendor type absorbs.
// Unknown types take the full impact.
func (p ComplexityPolicy) Impact(t VendorType) float64 {
	if v, ok := p.VendorTypeImpact[t]; ok {
		return v
	}
	return 1
}

type BreachPolicy struct {
	RecordThreshold    int64              `yaml:"recordThreshold" json:"recordThreshold"`
	Horizons           []int              `yaml:"horizons" json:"horizons"`
	ComponentFractions map[string]float64 `yaml:"componentFractions" json:"componentFractions"`
	Mitigation         Mitigation         `yaml:"mitigation" json:"mitigation"`
}

// Mitigation holds the fixed reduction factors applied when the product is
// deployed. They are policy constants, not derived values.
type Mitigation struct {
	ProbabilityReduction float64 `yaml:"probabilityReduction" json:"probabilityReduction"`
	ImpactReduction      float64 `yaml:"impactReduction" json:"impactReduction"`
	ScopeReduction       float64 `yaml:"scopeReduction" json:"scopeReduction"`
	ResponseImprovement  float64 `yaml:"responseImprovement" json:"responseImprovement"`
}

// Vendor returns a copy of the vendor profile with the given id.
func (c *Catalog) Vendor(id string) (VendorProfile, error) {
	for _, v := range c.Vendors {
		if v.ID == id {
			v.Features = maps.Clone(v.Features)
			return v, nil
		}
	}
	return VendorProfile{}, calcerr.NotFound("vendor", id)
}

// VendorsByID resolves ids in order, failing on the first unknown id.
func (c *Catalog) VendorsByID(ids []string) ([]VendorProfile, error) {
	out := make([]VendorProfile, 0, len(ids))
	for _, id := range ids {
		v, err := c.Vendor(id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// VendorIDs returns every vendor id sorted alphabetically.
func (c *Catalog) VendorIDs() []string {
	ids := make([]string, 0, len(c.Vendors))
	for _, v := range c.Vendors {
		ids = append(ids, v.ID)
	}
	sort.Strings(ids)
	return ids
}

func (c *Catalog) Industry(id string) (Industry, error) {
	for _, ind := range c.Industries {
		if ind.ID == id {
			ind.ComponentMultipliers = maps.Clone(ind.ComponentMultipliers)
			return ind, nil
		}
	}
	return Industry{}, calcerr.NotFound("industry", id)
}

func (c *Catalog) CompanySize(id string) (CompanySize, error) {
	for _, size := range c.CompanySizes {
		if size.ID == id {
			return size, nil
		}
	}
	return CompanySize{}, calcerr.NotFound("company size", id)
}

// FeatureScore is the mean of a vendor's feature ratings, 0 without
// ratings.
func (v VendorProfile) FeatureScore() float64 {
	if len(v.Features) == 0 {
		return 0
	}
	total := 0
	for _, rating := range v.Features {
		total += rating
	}
	return float64(total) / float64(len(v.Features))
}

package catalog

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/bayneri/outlay/internal/calcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Contains(t, c.VendorIDs(), "portnox")
	assert.Contains(t, c.VendorIDs(), "cisco-ise")
	assert.Equal(t, 0.4, c.Complexity.Impact(VendorCloud))
	assert.Equal(t, 1.0, c.Complexity.Impact(VendorOnPrem))
	assert.Equal(t, int64(100000), c.Breach.RecordThreshold)
	assert.Equal(t, 0.35, c.Breach.Mitigation.ProbabilityReduction)
	assert.Equal(t, 0.40, c.Breach.Mitigation.ImpactReduction)
	assert.Equal(t, 0.65, c.Breach.Mitigation.ScopeReduction)
	assert.Equal(t, 0.70, c.Breach.Mitigation.ResponseImprovement)
}

func TestVendorLookup(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	v, err := c.Vendor("cisco-ise")
	require.NoError(t, err)
	assert.Equal(t, VendorOnPrem, v.Type)
	assert.Equal(t, 50.0, v.Costs.HardwarePerDevice)

	_, err = c.Vendor("acme-nac")
	require.Error(t, err)
	assert.True(t, calcerr.IsNotFound(err))
}

func TestVendorReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	v, err := c.Vendor("portnox")
	require.NoError(t, err)
	v.Features["cloudNative"] = 0

	again, err := c.Vendor("portnox")
	require.NoError(t, err)
	assert.Equal(t, 10, again.Features["cloudNative"])
}

func TestIndustryAndSizeLookup(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	ind, err := c.Industry("healthcare")
	require.NoError(t, err)
	assert.Equal(t, 1.5, ind.ComponentMultiplier(ComponentRegulatory))
	assert.Equal(t, 1.0, ind.ComponentMultiplier(ComponentDetection))

	size, err := c.CompanySize("large")
	require.NoError(t, err)
	assert.Equal(t, 1.5, size.BreachMultiplier)

	_, err = c.Industry("space")
	assert.True(t, calcerr.IsNotFound(err))
	_, err = c.CompanySize("huge")
	assert.True(t, calcerr.IsNotFound(err))
}

func TestMergeOverridesByID(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	count := len(c.Vendors)

	c.Merge(&Catalog{
		Vendors: []VendorProfile{
			{ID: "cisco-ise", Name: "Cisco ISE (negotiated)", Type: VendorOnPrem, Costs: Costs{LicensePerDeviceYear: 90}},
			{ID: "acme-nac", Name: "Acme NAC", Type: VendorCloud},
		},
		Complexity: ComplexityPolicy{
			MaxMultiplier:    1.8,
			VendorTypeImpact: map[VendorType]float64{VendorCloud: 0.5},
		},
		Breach: BreachPolicy{Mitigation: Mitigation{ProbabilityReduction: 0.5}},
	})

	assert.Len(t, c.Vendors, count+1)
	v, err := c.Vendor("cisco-ise")
	require.NoError(t, err)
	assert.Equal(t, 90.0, v.Costs.LicensePerDeviceYear)
	assert.Equal(t, 1.8, c.Complexity.MaxMultiplier)
	assert.Equal(t, 0.5, c.Complexity.Impact(VendorCloud))
	assert.Equal(t, 1.0, c.Complexity.Impact(VendorOnPrem))
	assert.Equal(t, 0.02, c.Complexity.PerAdditionalLocation)
	assert.Equal(t, 0.5, c.Breach.Mitigation.ProbabilityReduction)
	assert.Equal(t, 0.40, c.Breach.Mitigation.ImpactReduction)
}

func TestLoadWithOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte(`vendors:
  - id: acme-nac
    name: Acme NAC
    type: cloud
    costs:
      licensePerDeviceYear: 20
      implementationFlat: 5000
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	c, err := LoadWithOverride(path)
	require.NoError(t, err)
	v, err := c.Vendor("acme-nac")
	require.NoError(t, err)
	assert.Equal(t, 20.0, v.Costs.LicensePerDeviceYear)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	c.Vendors = append(c.Vendors,
		VendorProfile{ID: "portnox", Type: VendorCloud},
		VendorProfile{ID: "bad", Type: "hybrid", Costs: Costs{HardwarePerDevice: -1}, Features: map[string]int{"zeroTrust": 11}},
	)
	c.Breach.ComponentFractions["detection"] = 0.5
	c.Complexity.MaxMultiplier = 0.5

	err = c.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `id "portnox" is duplicated`)
	assert.Contains(t, msg, "type must be")
	assert.Contains(t, msg, "hardwarePerDevice must not be negative")
	assert.Contains(t, msg, "features.zeroTrust must be between 0 and 10")
	assert.Contains(t, msg, "componentFractions must sum to 1")
	assert.Contains(t, msg, "maxMultiplier must be at least 1")
}

func TestValidateRejectsNonFiniteNumbers(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	c.Vendors[0].Costs.LicensePerDeviceYear = math.NaN()
	c.Vendors[0].DowntimeHoursPerYear = math.Inf(1)
	c.Industries[0].PerRecordCost = math.NaN()
	c.Industries[0].BreachProbability = math.NaN()
	c.Complexity.LegacyWeight = math.NaN()
	c.Breach.Mitigation.ImpactReduction = math.NaN()

	err = c.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "vendors[0].costs.licensePerDeviceYear must be finite")
	assert.Contains(t, msg, "vendors[0].downtimeHoursPerYear must be finite")
	assert.Contains(t, msg, "industries[0] costs and factors must be finite")
	assert.Contains(t, msg, "industries[0].breachProbability must be between 0 and 1")
	assert.Contains(t, msg, "complexity factors and caps must be finite")
	assert.Contains(t, msg, "breach.mitigation.impactReduction must be between 0 and 1")
}

func TestLoadWithOverrideRejectsNaN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte(`vendors:
  - id: acme-nac
    name: Acme NAC
    type: cloud
    costs:
      licensePerDeviceYear: .nan
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err := LoadWithOverride(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "licensePerDeviceYear must be finite")
}

func TestFeatureScore(t *testing.T) {
	v := VendorProfile{Features: map[string]int{"a": 10, "b": 5}}
	assert.Equal(t, 7.5, v.FeatureScore())
	assert.Equal(t, 0.0, VendorProfile{}.FeatureScore())
}

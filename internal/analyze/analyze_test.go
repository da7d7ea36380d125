package analyze

import (
	"testing"
	"time"

	"github.com/bayneri/outlay/internal/catalog"
	"github.com/bayneri/outlay/internal/scenario"
	"github.com/bayneri/outlay/internal/sensitivity"
	"github.com/bayneri/outlay/internal/tco"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return fixedNow },
		NewID:  func() string { return "run-1" },
	}
}

func testScenario() scenario.Scenario {
	return scenario.Scenario{
		APIVersion: scenario.APIVersionV1,
		Kind:       scenario.KindTCOAnalysis,
		Metadata:   scenario.Metadata{Name: "Acme Clinic", Project: "demo"},
		Parameters: scenario.Parameters{
			DeviceCount:    1000,
			LocationCount:  1,
			YearsToProject: 3,
			Industry:       "technology",
			CompanySize:    "medium",
		},
		Vendors: []string{"portnox", "cisco-ise"},
		Breach:  &scenario.Breach{DataRecords: 50000},
		Sensitivity: []sensitivity.Sweep{
			{Parameter: sensitivity.DeviceCount, Min: 100, Max: 5000, Steps: 10},
		},
	}
}

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func TestRun(t *testing.T) {
	result, err := Run(defaultCatalog(t), testScenario(), testOptions())
	require.NoError(t, err)

	assert.Equal(t, SchemaVersion, result.SchemaVersion)
	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, fixedNow, result.GeneratedAt)
	assert.Equal(t, StatusOK, result.Status)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "portnox", result.Product)

	require.Len(t, result.Vendors, 2)
	cisco, ok := result.Vendor("cisco-ise")
	require.True(t, ok)
	assert.Equal(t, 1020000.0, cisco.TotalCost)
	assert.Nil(t, cisco.Explain)

	portnox, ok := result.Vendor("portnox")
	require.True(t, ok)
	// 15000 + 3 * (48*1000 + 0.25*120000)
	assert.Equal(t, 249000.0, portnox.TotalCost)

	require.Len(t, result.Comparisons, 1)
	cmp := result.Comparisons[0]
	assert.Equal(t, "cisco-ise", cmp.VendorID)
	assert.Equal(t, 771000.0, cmp.Savings)
	assert.InDelta(t, 75.5882, cmp.SavingsPercent, 1e-4)
	require.NotNil(t, cmp.PaybackMonths)
	assert.Equal(t, 0.0, *cmp.PaybackMonths)

	require.NotNil(t, result.Breach)
	assert.Greater(t, result.Breach.Savings.Annual, 0.0)
	require.Len(t, result.Sensitivity, 1)
	assert.Empty(t, result.Sensitivity[0].Breakevens)
	assert.Contains(t, result.Notes, "portnox costs less than cisco-ise over 3 years")
}

func TestRunRoundedTotalsStayConsistent(t *testing.T) {
	licensing := 1.0013
	hardware := 0.977
	legacy := 7.0
	for _, devices := range []int{1, 2, 3, 17, 999} {
		s := testScenario()
		s.Vendors = []string{"portnox", "cisco-ise"}
		s.Parameters.DeviceCount = devices
		s.Parameters.LocationCount = 2
		s.Parameters.LegacyDevicePercentage = &legacy
		s.Parameters.YearsToProject = 5
		s.Parameters.CostMultipliers = scenario.Multipliers{Licensing: &licensing, Hardware: &hardware}
		s.Sensitivity = nil

		result, err := Run(defaultCatalog(t), s, testOptions())
		require.NoError(t, err)
		for _, v := range result.Vendors {
			years := float64(v.YearsToProject)
			assert.Equal(t, money(v.InitialCost+v.AnnualCost*years), v.TotalCost, "%s devices=%d", v.VendorID, devices)

			sum := 0.0
			for _, category := range tco.Categories {
				sum += v.CostBreakdown[category]
			}
			assert.Equal(t, v.TotalCost, money(sum), "%s devices=%d breakdown", v.VendorID, devices)
		}
		for i, c := range result.Comparisons {
			competitor := result.Vendors[i+1]
			assert.Equal(t, money(competitor.TotalCost-result.Vendors[0].TotalCost), c.Savings)
		}
	}
}

func TestRunExplain(t *testing.T) {
	opts := testOptions()
	opts.Explain = true
	s := testScenario()
	s.Parameters.Industry = "healthcare"
	s.Parameters.LocationCount = 500
	legacy := 100.0
	s.Parameters.LegacyDevicePercentage = &legacy
	s.Parameters.CustomPolicies = true

	result, err := Run(defaultCatalog(t), s, opts)
	require.NoError(t, err)
	for _, v := range result.Vendors {
		require.NotNil(t, v.Explain, v.VendorID)
		assert.Contains(t, v.Explain.Formula, "complexity")
		assert.NotEmpty(t, v.Explain.Notes)
	}
}

func TestRunPartialOnFailedSweep(t *testing.T) {
	s := testScenario()
	s.Sensitivity = append(s.Sensitivity, sensitivity.Sweep{Parameter: sensitivity.DeviceCount, Min: -100, Max: 100, Steps: 3})

	result, err := Run(defaultCatalog(t), s, testOptions())
	require.NoError(t, err)
	assert.Equal(t, StatusPartial, result.Status)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "deviceCount")
	assert.Len(t, result.Sensitivity, 1)
}

func TestRunRejectsInvalidScenario(t *testing.T) {
	s := testScenario()
	s.Vendors = []string{"acme-nac"}
	_, err := Run(defaultCatalog(t), s, testOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
}

func TestRunIncludesPresetNotes(t *testing.T) {
	s := testScenario()
	s.Preset = "enterprise"
	s.Parameters.DeviceCount = 0
	preset, err := scenario.PresetFor("enterprise")
	require.NoError(t, err)

	result, err := Run(defaultCatalog(t), s, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 10000, result.Parameters.DeviceCount)
	for _, note := range preset.Notes {
		assert.Contains(t, result.Notes, note)
	}
}

func TestCompare(t *testing.T) {
	product := tco.Result{VendorID: "a", InitialCost: 100000, AnnualCost: 20000, TotalCost: 160000}
	competitor := tco.Result{VendorID: "b", InitialCost: 40000, AnnualCost: 50000, TotalCost: 190000}

	c := Compare(product, competitor)
	assert.Equal(t, 30000.0, c.Savings)
	assert.Equal(t, 30000.0, c.AnnualSavings)
	require.NotNil(t, c.PaybackMonths)
	assert.Equal(t, 24.0, *c.PaybackMonths)
	assert.InDelta(t, 18.75, c.ROIPercent, 1e-9)

	competitor.AnnualCost = 10000
	c = Compare(product, competitor)
	assert.Nil(t, c.PaybackMonths)
}

func TestDefaultOutDir(t *testing.T) {
	assert.Equal(t, "out/outlay-analyze/20250301-120000-acme-clinic", DefaultOutDir("Acme Clinic", fixedNow))
	assert.Equal(t, "out/outlay-analyze/20250301-120000-scenario", DefaultOutDir("***", fixedNow))
}

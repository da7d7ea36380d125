package sensitivity

import (
	"math"
	"testing"

	"github.com/bayneri/outlay/internal/calcerr"
	"github.com/bayneri/outlay/internal/catalog"
	"github.com/bayneri/outlay/internal/tco"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAnalyzer adds two synthetic vendors whose totals cross at 625 devices
// over three years: fixed-heavy costs 200000+90d, per-device costs 410d.
func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	c.Vendors = append(c.Vendors,
		catalog.VendorProfile{
			ID:    "fixed-heavy",
			Name:  "Fixed Heavy",
			Type:  catalog.VendorCloud,
			Costs: catalog.Costs{ImplementationFlat: 200000, LicensePerDeviceYear: 30},
		},
		catalog.VendorProfile{
			ID:    "per-device",
			Name:  "Per Device",
			Type:  catalog.VendorOnPrem,
			Costs: catalog.Costs{HardwarePerDevice: 50, LicensePerDeviceYear: 120},
		},
	)
	return NewAnalyzer(tco.NewCalculator(c, zerolog.Nop()), zerolog.Nop())
}

func baseParams() tco.Parameters {
	return tco.Parameters{
		DeviceCount:     1000,
		LocationCount:   1,
		YearsToProject:  3,
		Industry:        "technology",
		CompanySize:     "medium",
		CostMultipliers: tco.DefaultMultipliers(),
	}
}

func TestRunFindsDeviceCountBreakeven(t *testing.T) {
	analyzer := newAnalyzer(t)
	samples, err := Samples(100, 5000, 10)
	require.NoError(t, err)

	got, err := analyzer.Run(DeviceCount, samples, []string{"fixed-heavy", "per-device"}, baseParams())
	require.NoError(t, err)

	require.Len(t, got.Breakevens, 1)
	b := got.Breakevens[0]
	assert.Equal(t, "fixed-heavy", b.VendorA)
	assert.Equal(t, "per-device", b.VendorB)
	assert.GreaterOrEqual(t, b.ParameterValue, 100.0)
	assert.LessOrEqual(t, b.ParameterValue, 5000.0)
	assert.InDelta(t, 625, b.ParameterValue, 1)
	assert.InDelta(t, 200000+90*625.0, b.CostAtCrossover, 100)

	require.Len(t, got.Series["fixed-heavy"], 10)
	require.Len(t, got.Series["per-device"], 10)
	assert.Equal(t, 200000+90*100.0, got.Series["fixed-heavy"][0])
	assert.Equal(t, 410*100.0, got.Series["per-device"][0])
	assert.Equal(t, samples, got.SampledValues)
}

func TestRunWithoutCrossoverReturnsEmptyBreakevens(t *testing.T) {
	analyzer := newAnalyzer(t)
	samples, err := Samples(100, 5000, 10)
	require.NoError(t, err)

	got, err := analyzer.Run(DeviceCount, samples, []string{"portnox", "cisco-ise"}, baseParams())
	require.NoError(t, err)
	assert.NotNil(t, got.Breakevens)
	assert.Empty(t, got.Breakevens)
	for i := range samples {
		assert.Less(t, got.Series["portnox"][i], got.Series["cisco-ise"][i])
	}
}

func TestRunPairsFirstVendorWithEveryOther(t *testing.T) {
	analyzer := newAnalyzer(t)
	samples, err := Samples(100, 5000, 10)
	require.NoError(t, err)

	got, err := analyzer.Run(DeviceCount, samples, []string{"fixed-heavy", "portnox", "per-device"}, baseParams())
	require.NoError(t, err)
	for _, b := range got.Breakevens {
		assert.Equal(t, "fixed-heavy", b.VendorA)
	}
	assert.Len(t, got.Series, 3)
}

func TestRunMapsCostMultiplierParameters(t *testing.T) {
	analyzer := newAnalyzer(t)
	got, err := analyzer.Run(LicensingCost, []float64{0, 1, 2}, []string{"per-device"}, baseParams())
	require.NoError(t, err)

	series := got.Series["per-device"]
	// hardware 50000 is fixed, licensing 360000 per unit of multiplier
	assert.Equal(t, []float64{50000, 410000, 770000}, series)
}

func TestRunValidation(t *testing.T) {
	analyzer := newAnalyzer(t)
	vendors := []string{"fixed-heavy", "per-device"}

	_, err := analyzer.Run("colour", []float64{1, 2}, vendors, baseParams())
	assert.True(t, calcerr.IsInvalidParameter(err))

	_, err = analyzer.Run(DeviceCount, []float64{100}, vendors, baseParams())
	assert.True(t, calcerr.IsInvalidParameter(err))

	_, err = analyzer.Run(DeviceCount, []float64{100, 100, 200}, vendors, baseParams())
	assert.True(t, calcerr.IsInvalidParameter(err))

	_, err = analyzer.Run(YearsToProject, []float64{1, 2.5}, vendors, baseParams())
	assert.True(t, calcerr.IsInvalidParameter(err))

	_, err = analyzer.Run(DeviceCount, []float64{-10, 100}, vendors, baseParams())
	assert.True(t, calcerr.IsInvalidParameter(err))

	_, err = analyzer.Run(DeviceCount, []float64{100, 200}, []string{"fixed-heavy", "fixed-heavy"}, baseParams())
	assert.True(t, calcerr.IsInvalidParameter(err))

	_, err = analyzer.Run(DeviceCount, []float64{100, 200}, []string{"fixed-heavy", "acme-nac"}, baseParams())
	assert.True(t, calcerr.IsNotFound(err))
}

func TestFirstCrossoverOnly(t *testing.T) {
	samples := []float64{0, 1, 2, 3}
	a := []float64{10, 0, 10, 0}
	b := []float64{5, 5, 5, 5}

	got, ok := firstCrossover(samples, a, b)
	require.True(t, ok)
	assert.InDelta(t, 0.5, got.ParameterValue, 1e-12)
	assert.InDelta(t, 5, got.CostAtCrossover, 1e-12)

	_, ok = firstCrossover(samples, []float64{1, 2, 3, 4}, []float64{0, 0, 0, 0})
	assert.False(t, ok)
}

func TestApply(t *testing.T) {
	params, err := Apply(baseParams(), DeviceCount, 249.6)
	require.NoError(t, err)
	assert.Equal(t, 250, params.DeviceCount)

	params, err = Apply(baseParams(), FTECost, 1.25)
	require.NoError(t, err)
	assert.Equal(t, 1.25, params.CostMultipliers.FTE)
	assert.Equal(t, 1.0, params.CostMultipliers.Hardware)

	_, err = Apply(baseParams(), "colour", 1)
	assert.True(t, calcerr.IsInvalidParameter(err))

	assert.Contains(t, Parameters(), HardwareCost)
	assert.Len(t, Parameters(), 10)
}

func TestSamples(t *testing.T) {
	got, err := Samples(0, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, got)

	got, err = Samples(100, 5000, 10)
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, 100.0, got[0])
	assert.Equal(t, 5000.0, got[9])
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}

	_, err = Samples(0, 1, 1)
	assert.True(t, calcerr.IsInvalidParameter(err))
	_, err = Samples(5, 5, 3)
	assert.True(t, calcerr.IsInvalidParameter(err))
	_, err = Samples(0, math.Inf(1), 3)
	assert.True(t, calcerr.IsInvalidParameter(err))
	_, err = Samples(math.Inf(-1), 0, 3)
	assert.True(t, calcerr.IsInvalidParameter(err))
	_, err = Samples(math.NaN(), 1, 3)
	assert.True(t, calcerr.IsInvalidParameter(err))

	narrow, err := Samples(0, 1e-17, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5e-18, 1e-17}, narrow)

	_, err = Samples(1, math.Nextafter(1, 2), 3)
	assert.True(t, calcerr.IsInvalidParameter(err))

	swept, err := Sweep{Parameter: DeviceCount, Min: 10, Max: 30, Steps: 3}.Samples()
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, swept)
}

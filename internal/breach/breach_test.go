package breach

import (
	"testing"

	"github.com/bayneri/outlay/internal/calcerr"
	"github.com/bayneri/outlay/internal/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalculator(t *testing.T, opts ...Option) *Calculator {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return NewCalculator(c, zerolog.Nop(), opts...)
}

func healthcare() Parameters {
	return Parameters{
		Industry:          "healthcare",
		CompanySize:       "medium",
		DataRecords:       50000,
		AnnualProbability: 0.30,
	}
}

func TestComputeComponents(t *testing.T) {
	calc := newCalculator(t)
	got, err := calc.Compute(healthcare())
	require.NoError(t, err)

	base := 50000 * 429.0
	without := got.WithoutMitigation
	assert.InDelta(t, base*0.15, without.Components[catalog.ComponentDetection], 1e-6)
	assert.InDelta(t, base*0.10*1.2, without.Components[catalog.ComponentNotification], 1e-6)
	assert.InDelta(t, base*0.15*1.5, without.Components[catalog.ComponentRegulatory], 1e-6)
	assert.InDelta(t, 23487750.0, without.BreachCost, 1e-6)
	assert.InDelta(t, 23487750.0*0.30, without.AnnualRisk, 1e-6)
	assert.Equal(t, 0.30, without.AnnualProbability)
}

func TestComputeMitigation(t *testing.T) {
	calc := newCalculator(t)
	got, err := calc.Compute(healthcare())
	require.NoError(t, err)

	without, with := got.WithoutMitigation, got.WithMitigation
	assert.InDelta(t, 0.30*0.65, with.AnnualProbability, 1e-12)
	assert.InDelta(t, without.Components[catalog.ComponentResponse]*0.30, with.Components[catalog.ComponentResponse], 1e-6)
	assert.InDelta(t, without.Components[catalog.ComponentLostBusiness]*0.35, with.Components[catalog.ComponentLostBusiness], 1e-6)
	assert.InDelta(t, without.Components[catalog.ComponentReputation]*0.60, with.Components[catalog.ComponentReputation], 1e-6)

	assert.LessOrEqual(t, with.AnnualRisk, without.AnnualRisk)
	assert.InDelta(t, without.AnnualRisk-with.AnnualRisk, got.Savings.Annual, 1e-6)
	assert.GreaterOrEqual(t, got.Savings.Annual, 0.0)
}

func TestProjectionsScaleLinearly(t *testing.T) {
	calc := newCalculator(t)
	got, err := calc.Compute(healthcare())
	require.NoError(t, err)

	for _, years := range []int{1, 3, 5} {
		assert.InDelta(t, got.WithoutMitigation.AnnualRisk*float64(years), got.WithoutMitigation.ProjectedCosts[years], 1e-6)
		assert.InDelta(t, got.WithMitigation.AnnualRisk*float64(years), got.WithMitigation.ProjectedCosts[years], 1e-6)
		assert.InDelta(t, got.Savings.Annual*float64(years), got.Savings.Projected[years], 1e-6)
	}
}

func TestRecordThresholdUsesAverageBreachCost(t *testing.T) {
	calc := newCalculator(t)
	params := healthcare()
	params.DataRecords = 250000

	got, err := calc.Compute(params)
	require.NoError(t, err)
	assert.InDelta(t, 10930000*0.15, got.WithoutMitigation.Components[catalog.ComponentDetection], 1e-6)

	params.DataRecords = 100000
	atThreshold, err := calc.Compute(params)
	require.NoError(t, err)
	assert.InDelta(t, 100000*429*0.15, atThreshold.WithoutMitigation.Components[catalog.ComponentDetection], 1e-6)
}

func TestCompanySizeMultiplier(t *testing.T) {
	calc := newCalculator(t)
	medium, err := calc.Compute(healthcare())
	require.NoError(t, err)

	params := healthcare()
	params.CompanySize = "large"
	large, err := calc.Compute(params)
	require.NoError(t, err)
	assert.InDelta(t, medium.WithoutMitigation.BreachCost*1.5, large.WithoutMitigation.BreachCost, 1e-6)

	params.CompanySize = "small"
	small, err := calc.Compute(params)
	require.NoError(t, err)
	assert.InDelta(t, medium.WithoutMitigation.BreachCost*0.7, small.WithoutMitigation.BreachCost, 1e-6)
}

func TestRiskIsMonotonicInProbability(t *testing.T) {
	calc := newCalculator(t)
	previous := -1.0
	for _, p := range []float64{0, 0.1, 0.25, 0.5, 0.9, 1} {
		params := healthcare()
		params.AnnualProbability = p
		got, err := calc.Compute(params)
		require.NoError(t, err)
		assert.Greater(t, got.WithoutMitigation.AnnualRisk, previous)
		assert.LessOrEqual(t, got.WithMitigation.AnnualRisk, got.WithoutMitigation.AnnualRisk)
		previous = got.WithoutMitigation.AnnualRisk
	}
}

func TestComputeReturnsCachedPointer(t *testing.T) {
	reg := prometheus.NewRegistry()
	calc := newCalculator(t, WithRegisterer(reg))

	first, err := calc.Compute(healthcare())
	require.NoError(t, err)
	second, err := calc.Compute(healthcare())
	require.NoError(t, err)
	assert.Same(t, first, second)

	other := healthcare()
	other.DataRecords = 60000
	third, err := calc.Compute(other)
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	assert.Equal(t, 1.0, testutil.ToFloat64(calc.cache.hits))
	assert.Equal(t, 2.0, testutil.ToFloat64(calc.cache.misses))
	assert.Equal(t, 2, calc.cache.size())

	count, err := testutil.GatherAndCount(reg, "outlay_breach_cache_hits_total", "outlay_breach_cache_misses_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestResetClearsCache(t *testing.T) {
	calc := newCalculator(t)
	first, err := calc.Compute(healthcare())
	require.NoError(t, err)

	calc.Reset()
	assert.Equal(t, 0, calc.cache.size())

	second, err := calc.Compute(healthcare())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Savings.Annual, second.Savings.Annual)
}

func TestComputeValidation(t *testing.T) {
	calc := newCalculator(t)
	cases := []struct {
		name     string
		mutate   func(*Parameters)
		notFound bool
	}{
		{name: "probability above one", mutate: func(p *Parameters) { p.AnnualProbability = 1.2 }},
		{name: "negative probability", mutate: func(p *Parameters) { p.AnnualProbability = -0.1 }},
		{name: "negative records", mutate: func(p *Parameters) { p.DataRecords = -1 }},
		{name: "missing industry", mutate: func(p *Parameters) { p.Industry = "" }},
		{name: "unknown industry", mutate: func(p *Parameters) { p.Industry = "mining" }, notFound: true},
		{name: "unknown size", mutate: func(p *Parameters) { p.CompanySize = "huge" }, notFound: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := healthcare()
			tc.mutate(&params)
			result, err := calc.Compute(params)
			require.Error(t, err)
			assert.Nil(t, result)
			if tc.notFound {
				assert.True(t, calcerr.IsNotFound(err), err.Error())
			} else {
				assert.True(t, calcerr.IsInvalidParameter(err), err.Error())
			}
		})
	}
	assert.Equal(t, 0, calc.cache.size())
}

func TestParametersForUsesIndustryProbability(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	params, err := ParametersFor(c, "financial", "large", 1000)
	require.NoError(t, err)
	assert.Equal(t, 0.28, params.AnnualProbability)

	_, err = ParametersFor(c, "mining", "large", 1000)
	assert.True(t, calcerr.IsNotFound(err))
}

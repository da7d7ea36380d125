// Package breach estimates annualized breach risk for an organization with
// and without the NAC product deployed.
package breach

import (
	"math"

	"github.com/bayneri/outlay/internal/calcerr"
	"github.com/bayneri/outlay/internal/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type Parameters struct {
	Industry          string  `yaml:"industry" json:"industry"`
	CompanySize       string  `yaml:"companySize" json:"companySize"`
	DataRecords       int64   `yaml:"dataRecords" json:"dataRecords"`
	AnnualProbability float64 `yaml:"annualProbability" json:"annualProbability"`
}

func (p Parameters) Validate() error {
	if p.Industry == "" {
		return calcerr.Invalid("industry", "is required")
	}
	if p.CompanySize == "" {
		return calcerr.Invalid("companySize", "is required")
	}
	if p.DataRecords < 0 {
		return calcerr.Invalid("dataRecords", "must not be negative, got %d", p.DataRecords)
	}
	if math.IsNaN(p.AnnualProbability) || p.AnnualProbability < 0 || p.AnnualProbability > 1 {
		return calcerr.Invalid("annualProbability", "must be between 0 and 1, got %v", p.AnnualProbability)
	}
	return nil
}

// Exposure is the breach risk under one deployment assumption.
type Exposure struct {
	AnnualProbability float64            `json:"annualProbability"`
	BreachCost        float64            `json:"breachCost"`
	AnnualRisk        float64            `json:"annualRisk"`
	Components        map[string]float64 `json:"components"`
	ProjectedCosts    map[int]float64    `json:"projectedCosts"`
}

type Savings struct {
	Annual    float64         `json:"annual"`
	Projected map[int]float64 `json:"projected"`
}

// Result is shared between callers through the cache and must be treated
// as read-only.
type Result struct {
	Parameters        Parameters `json:"parameters"`
	WithoutMitigation Exposure   `json:"withoutMitigation"`
	WithMitigation    Exposure   `json:"withMitigation"`
	Savings           Savings    `json:"savings"`
}

type Calculator struct {
	catalog *catalog.Catalog
	logger  zerolog.Logger
	cache   *cache
}

type Option func(*options)

type options struct {
	registerer prometheus.Registerer
}

// WithRegisterer exports cache hit and miss counters to reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func NewCalculator(c *catalog.Catalog, logger zerolog.Logger, opts ...Option) *Calculator {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Calculator{
		catalog: c,
		logger:  logger,
		cache:   newCache(o.registerer),
	}
}

// ParametersFor builds parameters that use the industry's default annual
// breach probability.
func ParametersFor(c *catalog.Catalog, industry, companySize string, records int64) (Parameters, error) {
	ind, err := c.Industry(industry)
	if err != nil {
		return Parameters{}, err
	}
	return Parameters{
		Industry:          industry,
		CompanySize:       companySize,
		DataRecords:       records,
		AnnualProbability: ind.BreachProbability,
	}, nil
}

// Compute returns the breach impact for params. Equal parameters return
// the same *Result until Reset is called.
func (c *Calculator) Compute(params Parameters) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	key, err := cacheKey(params)
	if err != nil {
		return nil, err
	}
	if cached, ok := c.cache.get(key); ok {
		c.logger.Debug().Str("industry", params.Industry).Msg("breach cache hit")
		return cached, nil
	}

	result, err := c.compute(params)
	if err != nil {
		return nil, err
	}
	result = c.cache.put(key, result)
	c.logger.Debug().
		Str("industry", params.Industry).
		Str("size", params.CompanySize).
		Float64("annualSavings", result.Savings.Annual).
		Msg("computed breach impact")
	return result, nil
}

// Reset clears the memoized results.
func (c *Calculator) Reset() {
	c.cache.reset()
}

func (c *Calculator) compute(params Parameters) (*Result, error) {
	industry, err := c.catalog.Industry(params.Industry)
	if err != nil {
		return nil, err
	}
	size, err := c.catalog.CompanySize(params.CompanySize)
	if err != nil {
		return nil, err
	}
	policy := c.catalog.Breach

	base := industry.AverageBreachCost
	if params.DataRecords <= policy.RecordThreshold {
		base = float64(params.DataRecords) * industry.PerRecordCost
	}
	base *= size.BreachMultiplier

	full := make(map[string]float64, len(catalog.Components))
	mitigated := make(map[string]float64, len(catalog.Components))
	for _, component := range catalog.Components {
		amount := base * policy.ComponentFractions[component] * industry.ComponentMultiplier(component)
		full[component] = amount
		mitigated[component] = amount * (1 - reduction(policy.Mitigation, component))
	}

	without := exposure(params.AnnualProbability, full, policy.Horizons)
	with := exposure(params.AnnualProbability*(1-policy.Mitigation.ProbabilityReduction), mitigated, policy.Horizons)

	savings := Savings{
		Annual:    without.AnnualRisk - with.AnnualRisk,
		Projected: make(map[int]float64, len(policy.Horizons)),
	}
	for _, years := range policy.Horizons {
		savings.Projected[years] = without.ProjectedCosts[years] - with.ProjectedCosts[years]
	}
	return &Result{
		Parameters:        params,
		WithoutMitigation: without,
		WithMitigation:    with,
		Savings:           savings,
	}, nil
}

// reduction maps each cost component to the mitigation factor that
// shrinks it.
func reduction(m catalog.Mitigation, component string) float64 {
	switch component {
	case catalog.ComponentDetection, catalog.ComponentResponse:
		return m.ResponseImprovement
	case catalog.ComponentNotification, catalog.ComponentLostBusiness:
		return m.ScopeReduction
	case catalog.ComponentRegulatory, catalog.ComponentReputation:
		return m.ImpactReduction
	default:
		return 0
	}
}

func exposure(probability float64, components map[string]float64, horizons []int) Exposure {
	cost := 0.0
	for _, component := range catalog.Components {
		cost += components[component]
	}
	risk := cost * probability
	projected := make(map[int]float64, len(horizons))
	for _, years := range horizons {
		projected[years] = risk * float64(years)
	}
	return Exposure{
		AnnualProbability: probability,
		BreachCost:        cost,
		AnnualRisk:        risk,
		Components:        components,
		ProjectedCosts:    projected,
	}
}

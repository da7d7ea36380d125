// Package tco computes per-vendor total cost of ownership.
package tco

import (
	"fmt"

	"github.com/bayneri/outlay/internal/catalog"
	"github.com/rs/zerolog"
)

// Breakdown categories. Their amounts sum to the total cost.
const (
	CategoryHardware       = "hardware"
	CategoryImplementation = "implementation"
	CategoryLicensing      = "licensing"
	CategoryMaintenance    = "maintenance"
	CategoryPersonnel      = "personnel"
)

var Categories = []string{
	CategoryHardware,
	CategoryImplementation,
	CategoryLicensing,
	CategoryMaintenance,
	CategoryPersonnel,
}

type Result struct {
	VendorID             string             `json:"vendorId"`
	VendorName           string             `json:"vendorName"`
	VendorType           catalog.VendorType `json:"vendorType"`
	InitialCost          float64            `json:"initialCost"`
	AnnualCost           float64            `json:"annualCost"`
	TotalCost            float64            `json:"totalCost"`
	YearsToProject       int                `json:"yearsToProject"`
	ComplexityMultiplier float64            `json:"complexityMultiplier"`
	Complexity           ComplexityFactors  `json:"complexity"`
	DowntimeCost         float64            `json:"downtimeCost"`
	CostBreakdown        map[string]float64 `json:"costBreakdown"`
}

type Calculator struct {
	catalog *catalog.Catalog
	logger  zerolog.Logger
}

func NewCalculator(c *catalog.Catalog, logger zerolog.Logger) *Calculator {
	return &Calculator{catalog: c, logger: logger}
}

func (c *Calculator) Catalog() *catalog.Catalog {
	return c.catalog
}

// ComputeByID resolves the vendor in the catalog and computes its TCO.
func (c *Calculator) ComputeByID(vendorID string, params Parameters) (Result, error) {
	vendor, err := c.catalog.Vendor(vendorID)
	if err != nil {
		return Result{}, err
	}
	return c.Compute(vendor, params)
}

// ComputeAll computes TCO for each vendor id in order.
func (c *Calculator) ComputeAll(vendorIDs []string, params Parameters) ([]Result, error) {
	results := make([]Result, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		result, err := c.ComputeByID(id, params)
		if err != nil {
			return nil, fmt.Errorf("vendor %s: %w", id, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (c *Calculator) Compute(vendor catalog.VendorProfile, params Parameters) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	industryFactor := 0.0
	if params.Industry != "" {
		industry, err := c.catalog.Industry(params.Industry)
		if err != nil {
			return Result{}, err
		}
		industryFactor = industry.ComplexityFactor
	}

	factors := complexityFactors(c.catalog.Complexity, params, industryFactor)
	cx := complexityMultiplier(c.catalog.Complexity, vendor.Type, factors)

	costs := vendor.Costs
	m := params.CostMultipliers
	devices := float64(params.DeviceCount)
	years := float64(params.YearsToProject)

	hardware := costs.HardwarePerDevice * devices * m.Hardware
	implementation := costs.ImplementationFlat * m.Implementation
	initial := (hardware + implementation) * cx

	licensing := costs.LicensePerDeviceYear * devices * m.Licensing
	maintenance := costs.MaintenancePerYear * m.Maintenance
	personnel := costs.FTECount * costs.FTECostPerYear * m.FTE
	annual := licensing + maintenance + personnel

	result := Result{
		VendorID:             vendor.ID,
		VendorName:           vendor.Name,
		VendorType:           vendor.Type,
		InitialCost:          initial,
		AnnualCost:           annual,
		TotalCost:            initial + annual*years,
		YearsToProject:       params.YearsToProject,
		ComplexityMultiplier: cx,
		Complexity:           factors,
		DowntimeCost:         vendor.DowntimeHoursPerYear * params.DowntimeCostPerHour * years,
		CostBreakdown: map[string]float64{
			CategoryHardware:       hardware * cx,
			CategoryImplementation: implementation * cx,
			CategoryLicensing:      licensing * years,
			CategoryMaintenance:    maintenance * years,
			CategoryPersonnel:      personnel * years,
		},
	}

	c.logger.Debug().
		Str("vendor", vendor.ID).
		Int("devices", params.DeviceCount).
		Int("years", params.YearsToProject).
		Float64("complexity", cx).
		Float64("total", result.TotalCost).
		Msg("computed tco")
	return result, nil
}

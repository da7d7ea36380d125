package analyze

import (
	"time"

	"github.com/bayneri/outlay/internal/breach"
	"github.com/bayneri/outlay/internal/sensitivity"
	"github.com/bayneri/outlay/internal/tco"
)

const SchemaVersion = "1.0"

type Result struct {
	SchemaVersion string               `json:"schemaVersion"`
	RunID         string               `json:"runId"`
	GeneratedAt   time.Time            `json:"generatedAt"`
	Scenario      string               `json:"scenario"`
	Project       string               `json:"project,omitempty"`
	Labels        map[string]string    `json:"labels,omitempty"`
	Product       string               `json:"product"`
	Parameters    tco.Parameters       `json:"parameters"`
	Status        string               `json:"status"`
	Vendors       []VendorResult       `json:"vendors"`
	Comparisons   []Comparison         `json:"comparisons"`
	Breach        *breach.Result       `json:"breach,omitempty"`
	Sensitivity   []sensitivity.Result `json:"sensitivity,omitempty"`
	Notes         []string             `json:"notes,omitempty"`
	Errors        []string             `json:"errors"`
}

type VendorResult struct {
	tco.Result
	FeatureScore float64  `json:"featureScore"`
	Explain      *Explain `json:"explain,omitempty"`
}

// Comparison measures the product against one competitor.
type Comparison struct {
	VendorID       string   `json:"vendorId"`
	ProductCost    float64  `json:"productCost"`
	CompetitorCost float64  `json:"competitorCost"`
	Savings        float64  `json:"savings"`
	SavingsPercent float64  `json:"savingsPercent"`
	AnnualSavings  float64  `json:"annualSavings"`
	PaybackMonths  *float64 `json:"paybackMonths"`
	ROIPercent     float64  `json:"roiPercent"`
}

type Explain struct {
	Formula string   `json:"formula"`
	Notes   []string `json:"notes"`
}

type Sources struct {
	Scenario string   `json:"scenario"`
	Catalog  string   `json:"catalog"`
	Vendors  []string `json:"vendors"`
}

// Vendor returns the result for id.
func (r Result) Vendor(id string) (VendorResult, bool) {
	for _, v := range r.Vendors {
		if v.VendorID == id {
			return v, true
		}
	}
	return VendorResult{}, false
}

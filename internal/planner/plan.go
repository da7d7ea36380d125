package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bayneri/outlay/internal/analyze"
	"github.com/bayneri/outlay/internal/scenario"
)

const ManagedByLabel = "managed-by"
const ManagedByValue = "outlay"
const ScenarioLabel = "scenario-name"

const MetricPrefix = "custom.googleapis.com/outlay/"

const (
	MetricTotalCost    = MetricPrefix + "tco/total_cost"
	MetricInitialCost  = MetricPrefix + "tco/initial_cost"
	MetricAnnualCost   = MetricPrefix + "tco/annual_cost"
	MetricSavings      = MetricPrefix + "comparison/savings"
	MetricBreachRisk   = MetricPrefix + "breach/annual_risk"
	MetricBreachSaving = MetricPrefix + "breach/annual_savings"
)

// Metric label keys.
const (
	LabelScenario   = "scenario"
	LabelVendor     = "vendor"
	LabelMitigation = "mitigation"
)

type Plan struct {
	Project    string
	Scenario   string
	ScenarioID string
	RunID      string
	Timestamp  time.Time
	Labels     map[string]string
	Metrics    []MetricPlan
	Series     []SeriesPlan
	Dashboard  DashboardPlan
}

type MetricPlan struct {
	Type        string
	DisplayName string
	Description string
	Unit        string
	LabelKeys   []string
}

type SeriesPlan struct {
	MetricType string
	Labels     map[string]string
	Value      float64
}

type DashboardPlan struct {
	ID          string
	DisplayName string
	Scenario    string
	Product     string
	Vendors     []string
	HasBreach   bool
	Labels      map[string]string
}

type Options struct {
	ProjectOverride string
	Labels          map[string]string
}

var costMetrics = []MetricPlan{
	{Type: MetricTotalCost, DisplayName: "outlay total cost", Description: "Projected total cost of ownership per vendor.", Unit: "USD", LabelKeys: []string{LabelScenario, LabelVendor}},
	{Type: MetricInitialCost, DisplayName: "outlay initial cost", Description: "Up-front cost per vendor including the complexity multiplier.", Unit: "USD", LabelKeys: []string{LabelScenario, LabelVendor}},
	{Type: MetricAnnualCost, DisplayName: "outlay annual cost", Description: "Recurring yearly cost per vendor.", Unit: "USD", LabelKeys: []string{LabelScenario, LabelVendor}},
	{Type: MetricSavings, DisplayName: "outlay savings", Description: "Total cost saved by the product against each competitor.", Unit: "USD", LabelKeys: []string{LabelScenario, LabelVendor}},
}

var breachMetrics = []MetricPlan{
	{Type: MetricBreachRisk, DisplayName: "outlay breach risk", Description: "Annualized breach risk with and without mitigation.", Unit: "USD", LabelKeys: []string{LabelScenario, LabelMitigation}},
	{Type: MetricBreachSaving, DisplayName: "outlay breach savings", Description: "Annual breach risk removed by mitigation.", Unit: "USD", LabelKeys: []string{LabelScenario}},
}

// Metrics lists every metric descriptor outlay manages.
func Metrics() []MetricPlan {
	return append(append([]MetricPlan(nil), costMetrics...), breachMetrics...)
}

func Build(result analyze.Result, opts Options) Plan {
	labels := scenario.MergeLabels(result.Labels, opts.Labels)
	labels[ManagedByLabel] = ManagedByValue
	labels[ScenarioLabel] = sanitizeID(result.Scenario)

	project := result.Project
	if opts.ProjectOverride != "" {
		project = opts.ProjectOverride
	}
	scenarioID := sanitizeID(result.Scenario)

	plan := Plan{
		Project:    project,
		Scenario:   result.Scenario,
		ScenarioID: scenarioID,
		RunID:      result.RunID,
		Timestamp:  result.GeneratedAt,
		Labels:     labels,
		Metrics:    append([]MetricPlan(nil), costMetrics...),
	}

	var vendors []string
	for _, v := range result.Vendors {
		vendors = append(vendors, v.VendorID)
		seriesLabels := map[string]string{LabelScenario: scenarioID, LabelVendor: v.VendorID}
		plan.Series = append(plan.Series,
			SeriesPlan{MetricType: MetricTotalCost, Labels: seriesLabels, Value: v.TotalCost},
			SeriesPlan{MetricType: MetricInitialCost, Labels: seriesLabels, Value: v.InitialCost},
			SeriesPlan{MetricType: MetricAnnualCost, Labels: seriesLabels, Value: v.AnnualCost},
		)
	}
	for _, c := range result.Comparisons {
		plan.Series = append(plan.Series, SeriesPlan{
			MetricType: MetricSavings,
			Labels:     map[string]string{LabelScenario: scenarioID, LabelVendor: c.VendorID},
			Value:      c.Savings,
		})
	}
	if result.Breach != nil {
		plan.Metrics = append(plan.Metrics, breachMetrics...)
		plan.Series = append(plan.Series,
			SeriesPlan{MetricType: MetricBreachRisk, Labels: map[string]string{LabelScenario: scenarioID, LabelMitigation: "without"}, Value: result.Breach.WithoutMitigation.AnnualRisk},
			SeriesPlan{MetricType: MetricBreachRisk, Labels: map[string]string{LabelScenario: scenarioID, LabelMitigation: "with"}, Value: result.Breach.WithMitigation.AnnualRisk},
			SeriesPlan{MetricType: MetricBreachSaving, Labels: map[string]string{LabelScenario: scenarioID}, Value: result.Breach.Savings.Annual},
		)
	}

	plan.Dashboard = DashboardPlan{
		ID:          fmt.Sprintf("%s-dashboard", scenarioID),
		DisplayName: fmt.Sprintf("%s cost dashboard", result.Scenario),
		Scenario:    scenarioID,
		Product:     result.Product,
		Vendors:     vendors,
		HasBreach:   result.Breach != nil,
		Labels:      labels,
	}
	return plan
}

func sanitizeID(input string) string {
	normalized := strings.ToLower(input)
	var out []rune
	lastDash := false
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out = append(out, r)
			lastDash = false
			continue
		}
		if !lastDash {
			out = append(out, '-')
			lastDash = true
		}
	}
	result := strings.Trim(string(out), "-")
	if result == "" {
		return "scenario"
	}
	return result
}

func SortedLabels(labels map[string]string) []string {
	var out []string
	for k, v := range labels {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

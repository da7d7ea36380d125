package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bayneri/outlay/internal/analyze"
)

type AggregateResult struct {
	SchemaVersion string              `json:"schemaVersion"`
	Inputs        []string            `json:"inputs"`
	Status        string              `json:"status"`
	Scenarios     []ScenarioAggregate `json:"scenarios"`
	Totals        PortfolioTotals     `json:"totals"`
	Errors        []string            `json:"errors"`
}

type ScenarioAggregate struct {
	Scenario           string   `json:"scenario"`
	Project            string   `json:"project,omitempty"`
	Status             string   `json:"status"`
	Product            string   `json:"product"`
	ProductCost        float64  `json:"productCost"`
	BestSavings        float64  `json:"bestSavings"`
	BestSavingsVendor  string   `json:"bestSavingsVendor,omitempty"`
	BreachAnnualSaving float64  `json:"breachAnnualSavings"`
	Breakevens         int      `json:"breakevens"`
	Errors             []string `json:"errors"`
}

// PortfolioTotals sums the scenarios of an aggregate.
type PortfolioTotals struct {
	ProductCost         float64 `json:"productCost"`
	BestSavings         float64 `json:"bestSavings"`
	BreachAnnualSavings float64 `json:"breachAnnualSavings"`
}

func ReadResults(paths []string) ([]analyze.Result, error) {
	var results []analyze.Result
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var result analyze.Result
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if result.SchemaVersion == "" {
			return nil, fmt.Errorf("missing schemaVersion in %s", path)
		}
		results = append(results, result)
	}
	return results, nil
}

// Aggregate combines analyses into a portfolio. A scenario analysed more
// than once keeps its latest run and records a warning.
func Aggregate(results []analyze.Result, inputs []string) (AggregateResult, error) {
	if len(results) == 0 {
		return AggregateResult{}, errors.New("no results to aggregate")
	}
	byScenario := map[string]analyze.Result{}
	var errorsList []string
	status := analyze.StatusOK
	for i, result := range results {
		status = mergeStatus(status, result.Status)
		key := fmt.Sprintf("%s/%s", result.Project, result.Scenario)
		if prev, ok := byScenario[key]; ok {
			errorsList = append(errorsList, fmt.Sprintf("duplicate scenario %s between inputs", key))
			if result.GeneratedAt.Before(prev.GeneratedAt) {
				continue
			}
		}
		byScenario[key] = result
		if len(result.Errors) > 0 && len(inputs) > i {
			errorsList = append(errorsList, fmt.Sprintf("%s: %d error(s)", inputs[i], len(result.Errors)))
		}
	}

	var scenarios []ScenarioAggregate
	var totals PortfolioTotals
	for _, result := range byScenario {
		item := summarize(result)
		totals.ProductCost += item.ProductCost
		totals.BestSavings += item.BestSavings
		totals.BreachAnnualSavings += item.BreachAnnualSaving
		scenarios = append(scenarios, item)
	}
	sort.Slice(scenarios, func(i, j int) bool {
		if scenarios[i].Project == scenarios[j].Project {
			return scenarios[i].Scenario < scenarios[j].Scenario
		}
		return scenarios[i].Project < scenarios[j].Project
	})

	return AggregateResult{
		SchemaVersion: analyze.SchemaVersion,
		Inputs:        inputs,
		Status:        status,
		Scenarios:     scenarios,
		Totals:        totals,
		Errors:        errorsList,
	}, nil
}

func summarize(result analyze.Result) ScenarioAggregate {
	item := ScenarioAggregate{
		Scenario: result.Scenario,
		Project:  result.Project,
		Status:   result.Status,
		Product:  result.Product,
		Errors:   result.Errors,
	}
	if v, ok := result.Vendor(result.Product); ok {
		item.ProductCost = v.TotalCost
	}
	for _, c := range result.Comparisons {
		if item.BestSavingsVendor == "" || c.Savings > item.BestSavings {
			item.BestSavings = c.Savings
			item.BestSavingsVendor = c.VendorID
		}
	}
	if result.Breach != nil {
		item.BreachAnnualSaving = result.Breach.Savings.Annual
	}
	for _, s := range result.Sensitivity {
		item.Breakevens += len(s.Breakevens)
	}
	return item
}

func mergeStatus(a, b string) string {
	score := func(value string) int {
		switch value {
		case analyze.StatusError:
			return 3
		case analyze.StatusPartial:
			return 2
		case analyze.StatusOK:
			return 1
		default:
			return 0
		}
	}
	if score(b) > score(a) {
		return b
	}
	return a
}

func WriteAggregateJSON(path string, result AggregateResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return WriteJSON(path, result)
}

func WriteAggregateMarkdown(path string, result AggregateResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# outlay portfolio\n\n")
	fmt.Fprintf(&b, "Inputs: %d\n\n", len(result.Inputs))
	fmt.Fprintf(&b, "| Scenario | Project | Product | Product cost | Best savings | vs | Breach savings/yr | Breakevens | Status |\n")
	fmt.Fprintf(&b, "| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, s := range result.Scenarios {
		project := s.Project
		if project == "" {
			project = "-"
		}
		vs := s.BestSavingsVendor
		if vs == "" {
			vs = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %d | %s |\n",
			s.Scenario, project, s.Product, Money(s.ProductCost), Money(s.BestSavings), vs, Money(s.BreachAnnualSaving), s.Breakevens, s.Status)
	}
	fmt.Fprintf(&b, "\nTotals: product cost %s, savings %s, breach savings %s per year\n",
		Money(result.Totals.ProductCost), Money(result.Totals.BestSavings), Money(result.Totals.BreachAnnualSavings))
	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "\n## Warnings\n")
		for _, err := range result.Errors {
			fmt.Fprintf(&b, "- %s\n", err)
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// Package history reads published total-cost points back from Cloud
// Monitoring and summarizes how each vendor's projection moved.
package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

type Point struct {
	Vendor string    `json:"vendor"`
	At     time.Time `json:"at"`
	Value  float64   `json:"value"`
}

type Reader interface {
	TotalCostPoints(ctx context.Context, project, scenarioID string, start, end time.Time) ([]Point, error)
}

type VendorTrend struct {
	Vendor        string    `json:"vendor"`
	Points        int       `json:"points"`
	First         float64   `json:"first"`
	Last          float64   `json:"last"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	LastAt        time.Time `json:"lastAt"`
	Values        []float64 `json:"values"`
}

type Result struct {
	Project  string        `json:"project"`
	Scenario string        `json:"scenario"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Vendors  []VendorTrend `json:"vendors"`
}

type Options struct {
	Project  string
	Scenario string
	Start    time.Time
	End      time.Time
	Logger   zerolog.Logger
}

func Run(ctx context.Context, reader Reader, opts Options) (Result, error) {
	if opts.Project == "" {
		return Result{}, fmt.Errorf("--project is required")
	}
	if opts.Scenario == "" {
		return Result{}, fmt.Errorf("scenario is required")
	}
	points, err := reader.TotalCostPoints(ctx, opts.Project, opts.Scenario, opts.Start, opts.End)
	if err != nil {
		return Result{}, err
	}
	opts.Logger.Debug().Int("points", len(points)).Str("scenario", opts.Scenario).Msg("read cost history")
	return Result{
		Project:  opts.Project,
		Scenario: opts.Scenario,
		Start:    opts.Start,
		End:      opts.End,
		Vendors:  Summarize(points),
	}, nil
}

// Summarize groups points by vendor in time order.
func Summarize(points []Point) []VendorTrend {
	byVendor := map[string][]Point{}
	for _, p := range points {
		byVendor[p.Vendor] = append(byVendor[p.Vendor], p)
	}
	vendors := make([]string, 0, len(byVendor))
	for v := range byVendor {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)

	trends := make([]VendorTrend, 0, len(vendors))
	for _, v := range vendors {
		series := byVendor[v]
		sort.Slice(series, func(i, j int) bool { return series[i].At.Before(series[j].At) })
		first, last := series[0], series[len(series)-1]
		trend := VendorTrend{
			Vendor: v,
			Points: len(series),
			First:  first.Value,
			Last:   last.Value,
			Change: last.Value - first.Value,
			LastAt: last.At,
		}
		if first.Value != 0 {
			trend.ChangePercent = trend.Change / first.Value * 100
		}
		for _, p := range series {
			trend.Values = append(trend.Values, p.Value)
		}
		trends = append(trends, trend)
	}
	return trends
}

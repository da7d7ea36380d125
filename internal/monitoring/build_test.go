package monitoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"github.com/bayneri/outlay/internal/planner"
	"google.golang.org/genproto/googleapis/api/label"
	"google.golang.org/genproto/googleapis/api/metric"
)

func samplePlan() planner.Plan {
	labels := map[string]string{planner.ManagedByLabel: planner.ManagedByValue, planner.ScenarioLabel: "hospital"}
	return planner.Plan{
		Project:    "demo",
		Scenario:   "hospital",
		ScenarioID: "hospital",
		RunID:      "run-1",
		Timestamp:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Labels:     labels,
		Metrics:    planner.Metrics()[:1],
		Series: []planner.SeriesPlan{
			{MetricType: planner.MetricTotalCost, Labels: map[string]string{planner.LabelScenario: "hospital", planner.LabelVendor: "portnox"}, Value: 249000},
			{MetricType: planner.MetricTotalCost, Labels: map[string]string{planner.LabelScenario: "hospital", planner.LabelVendor: "cisco-ise"}, Value: 1020000},
		},
		Dashboard: planner.DashboardPlan{
			ID:          "hospital-dashboard",
			DisplayName: "hospital cost dashboard",
			Scenario:    "hospital",
			Product:     "portnox",
			Vendors:     []string{"portnox", "cisco-ise"},
			HasBreach:   true,
			Labels:      labels,
		},
	}
}

type fakeClient struct {
	calls   []string
	series  int
	failOn  string
	deleted DeleteRequest
}

func (f *fakeClient) record(call string) error {
	f.calls = append(f.calls, call)
	if call == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeClient) EnsureMetricDescriptor(ctx context.Context, req EnsureMetricRequest) error {
	return f.record("metric")
}

func (f *fakeClient) WriteTimeSeries(ctx context.Context, req WriteTimeSeriesRequest) error {
	f.series += len(req.Series)
	return f.record("series")
}

func (f *fakeClient) ApplyDashboard(ctx context.Context, req ApplyDashboardRequest) error {
	return f.record("dashboard")
}

func (f *fakeClient) DeleteManagedResources(ctx context.Context, req DeleteRequest) error {
	f.deleted = req
	return f.record("delete")
}

func TestApplyPlanOrder(t *testing.T) {
	client := &fakeClient{}
	if err := ApplyPlan(context.Background(), client, samplePlan()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := "metric,series,dashboard"
	if got := strings.Join(client.calls, ","); got != want {
		t.Fatalf("expected calls %s, got %s", want, got)
	}
	if client.series != 2 {
		t.Fatalf("expected 2 series, got %d", client.series)
	}
}

func TestApplyPlanStopsOnError(t *testing.T) {
	client := &fakeClient{failOn: "series"}
	err := ApplyPlan(context.Background(), client, samplePlan())
	if err == nil || !strings.Contains(err.Error(), "write time series") {
		t.Fatalf("expected wrapped series error, got %v", err)
	}
	if len(client.calls) != 2 {
		t.Fatalf("expected dashboard to be skipped, got %v", client.calls)
	}

	plan := samplePlan()
	plan.Project = ""
	if err := ApplyPlan(context.Background(), &fakeClient{}, plan); err == nil {
		t.Fatalf("expected error without project")
	}
}

func TestDeletePlanUsesScenarioLabels(t *testing.T) {
	client := &fakeClient{}
	if err := DeletePlan(context.Background(), client, samplePlan(), true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if client.deleted.Labels[planner.ScenarioLabel] != "hospital" {
		t.Fatalf("expected scenario label filter, got %v", client.deleted.Labels)
	}
	if !client.deleted.PurgeMetrics {
		t.Fatalf("expected purge flag")
	}
}

func TestBuildMetricDescriptor(t *testing.T) {
	m := planner.Metrics()[0]
	desc := BuildMetricDescriptor("demo", m)
	if desc.Name != "projects/demo/metricDescriptors/"+planner.MetricTotalCost {
		t.Fatalf("unexpected name %q", desc.Name)
	}
	if desc.MetricKind != metric.MetricDescriptor_GAUGE || desc.ValueType != metric.MetricDescriptor_DOUBLE {
		t.Fatalf("expected double gauge, got %v %v", desc.MetricKind, desc.ValueType)
	}
	if len(desc.Labels) != 2 || !sameLabels(desc.Labels, m.LabelKeys) {
		t.Fatalf("unexpected labels %v", desc.Labels)
	}
	if sameLabels([]*label.LabelDescriptor{{Key: "scenario"}}, m.LabelKeys) {
		t.Fatalf("expected label mismatch")
	}
}

func TestBuildTimeSeries(t *testing.T) {
	plan := samplePlan()
	ts := BuildTimeSeries("demo", plan.Series[0], plan.Timestamp)
	if ts.Resource.Type != "global" || ts.Resource.Labels["project_id"] != "demo" {
		t.Fatalf("unexpected resource %v", ts.Resource)
	}
	if len(ts.Points) != 1 || ts.Points[0].Value.GetDoubleValue() != 249000 {
		t.Fatalf("unexpected points %v", ts.Points)
	}
	if !ts.Points[0].Interval.EndTime.AsTime().Equal(plan.Timestamp) {
		t.Fatalf("unexpected end time")
	}
}

func TestBatchSeries(t *testing.T) {
	series := make([]*monitoringpb.TimeSeries, 450)
	batches := batchSeries(series)
	if len(batches) != 3 || len(batches[0]) != 200 || len(batches[2]) != 50 {
		t.Fatalf("unexpected batches %d", len(batches))
	}
	if batchSeries(nil) != nil {
		t.Fatalf("expected no batches for empty input")
	}
}

func TestBuildDashboard(t *testing.T) {
	plan := samplePlan()
	d := BuildDashboard(ApplyDashboardRequest{Project: "demo", Dashboard: plan.Dashboard, Labels: plan.Labels})
	if d.DisplayName != "hospital cost dashboard" {
		t.Fatalf("unexpected display name %q", d.DisplayName)
	}
	tiles := d.GetMosaicLayout().GetTiles()
	// intro, header, 2 cards, header, 3 charts, table
	if len(tiles) != 9 {
		t.Fatalf("expected 9 tiles, got %d", len(tiles))
	}
	if d.Labels[planner.ManagedByLabel] != planner.ManagedByValue {
		t.Fatalf("expected managed label on dashboard")
	}

	js, err := BuildDashboardJSON(ApplyDashboardRequest{Project: "demo", Dashboard: plan.Dashboard, Labels: plan.Labels})
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(js, "mosaicLayout") || !strings.Contains(js, planner.MetricSavings) {
		t.Fatalf("unexpected dashboard json: %s", js)
	}
}

func TestMetricFilterSortsLabels(t *testing.T) {
	got := MetricFilter("custom.googleapis.com/outlay/tco/total_cost", map[string]string{"vendor": "a", "scenario": "s"})
	want := `metric.type="custom.googleapis.com/outlay/tco/total_cost" AND resource.type="global" AND metric.label.scenario="s" AND metric.label.vendor="a"`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestHasManagedLabel(t *testing.T) {
	filter := map[string]string{planner.ManagedByLabel: planner.ManagedByValue}
	if hasManagedLabel(nil, filter) {
		t.Fatalf("expected unlabelled resource to be skipped")
	}
	if !hasManagedLabel(map[string]string{planner.ManagedByLabel: planner.ManagedByValue, "x": "y"}, filter) {
		t.Fatalf("expected match")
	}
}

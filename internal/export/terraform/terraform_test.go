package terraform

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bayneri/outlay/internal/planner"
)

func samplePlan() planner.Plan {
	labels := map[string]string{planner.ManagedByLabel: planner.ManagedByValue}
	return planner.Plan{
		Project:    "demo",
		Scenario:   "hospital",
		ScenarioID: "hospital",
		Labels:     labels,
		Metrics:    planner.Metrics(),
		Dashboard: planner.DashboardPlan{
			ID:          "hospital-dashboard",
			DisplayName: "hospital cost dashboard",
			Scenario:    "hospital",
			Product:     "portnox",
			Vendors:     []string{"portnox", "cisco-ise"},
			Labels:      labels,
		},
	}
}

func TestWriteTerraformExport(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(samplePlan(), dir)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("expected output in temp dir, got %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "google_monitoring_metric_descriptor") {
		t.Fatalf("expected metric descriptor resource in output")
	}
	if !strings.Contains(text, "google_monitoring_dashboard") {
		t.Fatalf("expected monitoring dashboard resource in output")
	}

	var cfg struct {
		Resource map[string]map[string]map[string]interface{} `json:"resource"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	descriptors := cfg.Resource["google_monitoring_metric_descriptor"]
	if len(descriptors) != len(planner.Metrics()) {
		t.Fatalf("expected %d descriptors, got %d", len(planner.Metrics()), len(descriptors))
	}
	total, ok := descriptors["tco_total_cost"]
	if !ok {
		t.Fatalf("expected tco_total_cost descriptor, got %v", descriptors)
	}
	if total["type"] != planner.MetricTotalCost {
		t.Fatalf("unexpected type %v", total["type"])
	}
	if _, ok := cfg.Resource["google_monitoring_dashboard"]["hospital_dashboard"]; !ok {
		t.Fatalf("expected hospital_dashboard resource")
	}
}

func TestTFName(t *testing.T) {
	cases := map[string]string{
		"tco/total_cost":     "tco_total_cost",
		"hospital-dashboard": "hospital_dashboard",
		"2025-run":           "metric_2025_run",
	}
	for in, want := range cases {
		if got := tfName("metric", in); got != want {
			t.Fatalf("tfName(%q)=%q, want %q", in, got, want)
		}
	}
}

package terraform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bayneri/outlay/internal/monitoring"
	"github.com/bayneri/outlay/internal/planner"
)

const outputFile = "main.tf.json"

func Write(plan planner.Plan, outDir string) (string, error) {
	if outDir == "" {
		outDir = filepath.Join("out", "terraform")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}
	dashboardJSON, err := monitoring.BuildDashboardJSON(monitoring.ApplyDashboardRequest{
		Project:   plan.Project,
		Dashboard: plan.Dashboard,
		Labels:    plan.Dashboard.Labels,
	})
	if err != nil {
		return "", err
	}

	cfg := map[string]interface{}{
		"terraform": map[string]interface{}{
			"required_providers": map[string]interface{}{
				"google": map[string]interface{}{
					"source":  "hashicorp/google",
					"version": ">= 5.0",
				},
			},
		},
		"provider": map[string]interface{}{
			"google": map[string]interface{}{
				"project": plan.Project,
			},
		},
		"resource": buildResources(plan, dashboardJSON),
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')
	path := filepath.Join(outDir, outputFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func buildResources(plan planner.Plan, dashboardJSON string) map[string]map[string]interface{} {
	resources := map[string]map[string]interface{}{}

	descriptors := map[string]interface{}{}
	for _, m := range plan.Metrics {
		descriptors[tfName("metric", strings.TrimPrefix(m.Type, planner.MetricPrefix))] = buildDescriptorResource(plan.Project, m)
	}
	if len(descriptors) > 0 {
		resources["google_monitoring_metric_descriptor"] = descriptors
	}

	resources["google_monitoring_dashboard"] = map[string]interface{}{
		tfName("dashboard", plan.Dashboard.ID): map[string]interface{}{
			"project":        plan.Project,
			"dashboard_json": dashboardJSON,
		},
	}
	return resources
}

func buildDescriptorResource(project string, m planner.MetricPlan) map[string]interface{} {
	labels := []map[string]interface{}{}
	for _, key := range m.LabelKeys {
		labels = append(labels, map[string]interface{}{
			"key":         key,
			"value_type":  "STRING",
			"description": fmt.Sprintf("outlay %s", key),
		})
	}
	return map[string]interface{}{
		"project":      project,
		"type":         m.Type,
		"display_name": m.DisplayName,
		"description":  m.Description,
		"unit":         m.Unit,
		"metric_kind":  "GAUGE",
		"value_type":   "DOUBLE",
		"labels":       labels,
	}
}

func tfName(prefix, value string) string {
	normalized := strings.ToLower(value)
	var out []rune
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	if len(out) == 0 || (out[0] >= '0' && out[0] <= '9') {
		return fmt.Sprintf("%s_%s", prefix, string(out))
	}
	return string(out)
}

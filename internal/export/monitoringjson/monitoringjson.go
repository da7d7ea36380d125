package monitoringjson

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/bayneri/outlay/internal/monitoring"
	"github.com/bayneri/outlay/internal/planner"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const outputFile = "monitoring.json"

func Write(plan planner.Plan, outDir string) (string, error) {
	if outDir == "" {
		outDir = filepath.Join("out", "monitoring-json")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	var descriptors []interface{}
	for _, m := range plan.Metrics {
		item, err := protoToInterface(monitoring.BuildMetricDescriptor(plan.Project, m))
		if err != nil {
			return "", err
		}
		descriptors = append(descriptors, item)
	}

	at := plan.Timestamp
	if at.IsZero() {
		at = time.Now().UTC()
	}
	var series []interface{}
	for _, s := range plan.Series {
		item, err := protoToInterface(monitoring.BuildTimeSeries(plan.Project, s, at))
		if err != nil {
			return "", err
		}
		series = append(series, item)
	}

	dashboard := monitoring.BuildDashboard(monitoring.ApplyDashboardRequest{
		Project:   plan.Project,
		Dashboard: plan.Dashboard,
		Labels:    plan.Dashboard.Labels,
	})
	dashboardJSON, err := protoToInterface(dashboard)
	if err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"metricDescriptors": descriptors,
		"timeSeries":        series,
		"dashboard":         dashboardJSON,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
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

func protoToInterface(msg proto.Message) (interface{}, error) {
	data, err := protojson.Marshal(msg)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

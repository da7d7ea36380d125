package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/bayneri/outlay/internal/planner"
)

func ApplyPlan(ctx context.Context, client Client, plan planner.Plan) error {
	if plan.Project == "" {
		return fmt.Errorf("project is required to publish")
	}
	for _, metric := range plan.Metrics {
		if err := client.EnsureMetricDescriptor(ctx, EnsureMetricRequest{Project: plan.Project, Metric: metric}); err != nil {
			return fmt.Errorf("ensure metric %s: %w", metric.Type, err)
		}
	}

	at := plan.Timestamp
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if err := client.WriteTimeSeries(ctx, WriteTimeSeriesRequest{
		Project: plan.Project,
		Series:  plan.Series,
		At:      at,
	}); err != nil {
		return fmt.Errorf("write time series: %w", err)
	}

	if err := client.ApplyDashboard(ctx, ApplyDashboardRequest{
		Project:   plan.Project,
		Dashboard: plan.Dashboard,
		Labels:    plan.Dashboard.Labels,
	}); err != nil {
		return fmt.Errorf("apply dashboard: %w", err)
	}
	return nil
}

func DeletePlan(ctx context.Context, client Client, plan planner.Plan, purgeMetrics bool) error {
	return client.DeleteManagedResources(ctx, DeleteRequest{
		Project: plan.Project,
		Labels: map[string]string{
			planner.ManagedByLabel: planner.ManagedByValue,
			planner.ScenarioLabel:  plan.ScenarioID,
		},
		PurgeMetrics: purgeMetrics,
	})
}

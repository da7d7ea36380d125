package monitoring

import (
	"context"
	"time"

	"github.com/bayneri/outlay/internal/planner"
)

type Client interface {
	EnsureMetricDescriptor(ctx context.Context, req EnsureMetricRequest) error
	WriteTimeSeries(ctx context.Context, req WriteTimeSeriesRequest) error
	ApplyDashboard(ctx context.Context, req ApplyDashboardRequest) error
	DeleteManagedResources(ctx context.Context, req DeleteRequest) error
}

type EnsureMetricRequest struct {
	Project string
	Metric  planner.MetricPlan
}

type WriteTimeSeriesRequest struct {
	Project string
	Series  []planner.SeriesPlan
	At      time.Time
}

type ApplyDashboardRequest struct {
	Project   string
	Dashboard planner.DashboardPlan
	Labels    map[string]string
}

// DeleteRequest removes dashboards carrying Labels. Metric descriptors are
// shared by every scenario and are only removed with PurgeMetrics.
type DeleteRequest struct {
	Project      string
	Labels       map[string]string
	PurgeMetrics bool
}

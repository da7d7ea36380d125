package monitoring

import (
	"context"
	"fmt"
	"strings"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	dashboard "cloud.google.com/go/monitoring/dashboard/apiv1"
	"cloud.google.com/go/monitoring/dashboard/apiv1/dashboardpb"
	"github.com/bayneri/outlay/internal/planner"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type GCPClient struct {
	metricClient *monitoring.MetricClient
	dashClient   *dashboard.DashboardsClient
}

func NewGCPClient(ctx context.Context, opts ...option.ClientOption) (*GCPClient, error) {
	metricClient, err := monitoring.NewMetricClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric client: %w", err)
	}
	dashClient, err := dashboard.NewDashboardsClient(ctx, opts...)
	if err != nil {
		metricClient.Close()
		return nil, fmt.Errorf("create dashboards client: %w", err)
	}
	return &GCPClient{metricClient: metricClient, dashClient: dashClient}, nil
}

// ClientOptions bills API usage to quotaProject when it is set.
func ClientOptions(quotaProject string) []option.ClientOption {
	if quotaProject == "" {
		return nil
	}
	return []option.ClientOption{option.WithQuotaProject(quotaProject)}
}

func (c *GCPClient) Close() error {
	var errs []string
	if err := c.metricClient.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.dashClient.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("close clients: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *GCPClient) EnsureMetricDescriptor(ctx context.Context, req EnsureMetricRequest) error {
	desired := BuildMetricDescriptor(req.Project, req.Metric)
	existing, err := c.metricClient.GetMetricDescriptor(ctx, &monitoringpb.GetMetricDescriptorRequest{Name: desired.Name})
	if err == nil && sameLabels(existing.GetLabels(), req.Metric.LabelKeys) {
		return nil
	}
	if err != nil && status.Code(err) != codes.NotFound {
		return err
	}
	_, err = c.metricClient.CreateMetricDescriptor(ctx, &monitoringpb.CreateMetricDescriptorRequest{
		Name:             fmt.Sprintf("projects/%s", req.Project),
		MetricDescriptor: desired,
	})
	return err
}

func (c *GCPClient) WriteTimeSeries(ctx context.Context, req WriteTimeSeriesRequest) error {
	var series []*monitoringpb.TimeSeries
	for _, s := range req.Series {
		series = append(series, BuildTimeSeries(req.Project, s, req.At))
	}
	for _, batch := range batchSeries(series) {
		if err := c.metricClient.CreateTimeSeries(ctx, &monitoringpb.CreateTimeSeriesRequest{
			Name:       fmt.Sprintf("projects/%s", req.Project),
			TimeSeries: batch,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *GCPClient) ApplyDashboard(ctx context.Context, req ApplyDashboardRequest) error {
	desired := BuildDashboard(req)

	existing, err := c.findDashboard(ctx, req.Project, req.Dashboard.DisplayName)
	if err != nil {
		return err
	}
	if existing != nil {
		desired.Name = existing.Name
		desired.Etag = existing.Etag
		_, err = c.dashClient.UpdateDashboard(ctx, &dashboardpb.UpdateDashboardRequest{
			Dashboard: desired,
		})
		return err
	}

	_, err = c.dashClient.CreateDashboard(ctx, &dashboardpb.CreateDashboardRequest{
		Parent:    fmt.Sprintf("projects/%s", req.Project),
		Dashboard: desired,
	})
	return err
}

func (c *GCPClient) DeleteManagedResources(ctx context.Context, req DeleteRequest) error {
	dashIter := c.dashClient.ListDashboards(ctx, &dashboardpb.ListDashboardsRequest{Parent: fmt.Sprintf("projects/%s", req.Project)})
	for {
		d, err := dashIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}
		if !hasManagedLabel(d.Labels, req.Labels) {
			continue
		}
		if err := c.dashClient.DeleteDashboard(ctx, &dashboardpb.DeleteDashboardRequest{Name: d.Name}); err != nil {
			return err
		}
	}

	if !req.PurgeMetrics {
		return nil
	}
	descIter := c.metricClient.ListMetricDescriptors(ctx, &monitoringpb.ListMetricDescriptorsRequest{
		Name:   fmt.Sprintf("projects/%s", req.Project),
		Filter: fmt.Sprintf("metric.type = starts_with(%q)", planner.MetricPrefix),
	})
	for {
		desc, err := descIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}
		err = c.metricClient.DeleteMetricDescriptor(ctx, &monitoringpb.DeleteMetricDescriptorRequest{Name: desc.Name})
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
	}
	return nil
}

func (c *GCPClient) findDashboard(ctx context.Context, project, displayName string) (*dashboardpb.Dashboard, error) {
	iter := c.dashClient.ListDashboards(ctx, &dashboardpb.ListDashboardsRequest{Parent: fmt.Sprintf("projects/%s", project)})
	for {
		d, err := iter.Next()
		if err == iterator.Done {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if d.DisplayName == displayName {
			return d, nil
		}
	}
}

package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"github.com/bayneri/outlay/internal/planner"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type GCPReader struct {
	metricClient *monitoring.MetricClient
}

func NewGCPReader(ctx context.Context, opts ...option.ClientOption) (*GCPReader, error) {
	metricClient, err := monitoring.NewMetricClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric client: %w", err)
	}
	return &GCPReader{metricClient: metricClient}, nil
}

func (r *GCPReader) Close() error {
	return r.metricClient.Close()
}

func (r *GCPReader) TotalCostPoints(ctx context.Context, project, scenarioID string, start, end time.Time) ([]Point, error) {
	req := &monitoringpb.ListTimeSeriesRequest{
		Name:   fmt.Sprintf("projects/%s", project),
		Filter: costFilter(scenarioID),
		Interval: &monitoringpb.TimeInterval{
			StartTime: timestamppb.New(start),
			EndTime:   timestamppb.New(end),
		},
		View: monitoringpb.ListTimeSeriesRequest_FULL,
	}

	var out []Point
	iter := r.metricClient.ListTimeSeries(ctx, req)
	for {
		ts, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		vendor := ts.GetMetric().GetLabels()[planner.LabelVendor]
		for _, point := range ts.Points {
			if point.Value == nil {
				continue
			}
			value, ok := pointValue(point.Value)
			if !ok {
				continue
			}
			out = append(out, Point{
				Vendor: vendor,
				At:     point.GetInterval().GetEndTime().AsTime(),
				Value:  value,
			})
		}
	}
	if len(out) == 0 {
		return nil, status.Error(codes.NotFound, "no published cost points in window")
	}
	return out, nil
}

func costFilter(scenarioID string) string {
	return strings.Join([]string{
		fmt.Sprintf("metric.type=%q", planner.MetricTotalCost),
		fmt.Sprintf("metric.label.%s=%q", planner.LabelScenario, scenarioID),
	}, " AND ")
}

func pointValue(v *monitoringpb.TypedValue) (float64, bool) {
	switch value := v.GetValue().(type) {
	case *monitoringpb.TypedValue_DoubleValue:
		return value.DoubleValue, true
	case *monitoringpb.TypedValue_Int64Value:
		return float64(value.Int64Value), true
	default:
		return 0, false
	}
}

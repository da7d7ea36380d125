package monitoring

import (
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"cloud.google.com/go/monitoring/dashboard/apiv1/dashboardpb"
	"github.com/bayneri/outlay/internal/planner"
	"google.golang.org/genproto/googleapis/api/label"
	"google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// maxSeriesPerRequest is the Cloud Monitoring limit for CreateTimeSeries.
const maxSeriesPerRequest = 200

const alignmentPeriod = time.Hour

func BuildMetricDescriptor(project string, m planner.MetricPlan) *metric.MetricDescriptor {
	var labels []*label.LabelDescriptor
	for _, key := range m.LabelKeys {
		labels = append(labels, &label.LabelDescriptor{
			Key:         key,
			ValueType:   label.LabelDescriptor_STRING,
			Description: fmt.Sprintf("outlay %s", key),
		})
	}
	return &metric.MetricDescriptor{
		Name:        metricDescriptorName(project, m.Type),
		Type:        m.Type,
		DisplayName: m.DisplayName,
		Description: m.Description,
		Unit:        m.Unit,
		MetricKind:  metric.MetricDescriptor_GAUGE,
		ValueType:   metric.MetricDescriptor_DOUBLE,
		Labels:      labels,
	}
}

func BuildTimeSeries(project string, s planner.SeriesPlan, at time.Time) *monitoringpb.TimeSeries {
	return &monitoringpb.TimeSeries{
		Metric: &metric.Metric{
			Type:   s.MetricType,
			Labels: s.Labels,
		},
		Resource: &monitoredres.MonitoredResource{
			Type:   "global",
			Labels: map[string]string{"project_id": project},
		},
		MetricKind: metric.MetricDescriptor_GAUGE,
		ValueType:  metric.MetricDescriptor_DOUBLE,
		Points: []*monitoringpb.Point{{
			Interval: &monitoringpb.TimeInterval{EndTime: timestamppb.New(at)},
			Value: &monitoringpb.TypedValue{
				Value: &monitoringpb.TypedValue_DoubleValue{DoubleValue: s.Value},
			},
		}},
	}
}

// batchSeries splits series into request sized batches.
func batchSeries(series []*monitoringpb.TimeSeries) [][]*monitoringpb.TimeSeries {
	var batches [][]*monitoringpb.TimeSeries
	for len(series) > 0 {
		n := len(series)
		if n > maxSeriesPerRequest {
			n = maxSeriesPerRequest
		}
		batches = append(batches, series[:n])
		series = series[n:]
	}
	return batches
}

func BuildDashboard(req ApplyDashboardRequest) *dashboardpb.Dashboard {
	tiles := []*dashboardpb.MosaicLayout_Tile{}
	columns := int32(12)
	y := int32(0)
	d := req.Dashboard

	tiles = append(tiles, tile(0, y, columns, 2, dashboardIntro(d)))
	y += 2

	cards := limitVendors(d.Vendors, 6)
	if len(cards) > 0 {
		tiles = append(tiles, tile(0, y, columns, 1, sectionHeader("Total cost of ownership")))
		y++
		colsPerRow := 3
		if len(cards) < colsPerRow {
			colsPerRow = len(cards)
		}
		width := columns / int32(colsPerRow)
		for i, vendor := range cards {
			x := int32(i%colsPerRow) * width
			row := int32(i / colsPerRow)
			tiles = append(tiles, tile(x, y+row*3, width, 3, totalCostCard(d.Scenario, vendor, vendor == d.Product)))
		}
		y += int32((len(cards)+colsPerRow-1)/colsPerRow) * 3
	}

	tiles = append(tiles, tile(0, y, columns, 1, sectionHeader("Trends")))
	y++
	charts := []*dashboardpb.Widget{
		vendorChart("Total cost by vendor", planner.MetricTotalCost, d.Scenario),
		vendorChart("Savings against competitors", planner.MetricSavings, d.Scenario),
	}
	if d.HasBreach {
		charts = append(charts, breachChart(d.Scenario))
	}
	for i, chart := range charts {
		x := int32(0)
		if i%2 == 1 {
			x = columns / 2
		}
		row := int32(i / 2)
		tiles = append(tiles, tile(x, y+row*4, columns/2, 4, chart))
	}
	y += int32((len(charts)+1)/2) * 4

	tiles = append(tiles, tile(0, y, columns, 3, costTable(d.Scenario)))

	return &dashboardpb.Dashboard{
		DisplayName: d.DisplayName,
		Labels:      req.Labels,
		Layout: &dashboardpb.Dashboard_MosaicLayout{
			MosaicLayout: &dashboardpb.MosaicLayout{
				Columns: columns,
				Tiles:   tiles,
			},
		},
	}
}

func BuildDashboardJSON(req ApplyDashboardRequest) (string, error) {
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(BuildDashboard(req))
	if err != nil {
		return "", fmt.Errorf("marshal dashboard: %w", err)
	}
	return string(data), nil
}

func tile(x, y, width, height int32, widget *dashboardpb.Widget) *dashboardpb.MosaicLayout_Tile {
	return &dashboardpb.MosaicLayout_Tile{
		XPos:   x,
		YPos:   y,
		Width:  width,
		Height: height,
		Widget: widget,
	}
}

func dashboardIntro(d planner.DashboardPlan) *dashboardpb.Widget {
	content := fmt.Sprintf("# %s\nPublished by outlay. Compares %s against %d vendor(s); each point is one analysis run.", d.DisplayName, d.Product, len(d.Vendors)-1)
	return textWidget(content)
}

func sectionHeader(title string) *dashboardpb.Widget {
	return textWidget(fmt.Sprintf("## %s", title))
}

func textWidget(content string) *dashboardpb.Widget {
	return &dashboardpb.Widget{
		Content: &dashboardpb.Widget_Text{
			Text: &dashboardpb.Text{
				Content: content,
				Format:  dashboardpb.Text_MARKDOWN,
			},
		},
	}
}

func MetricFilter(metricType string, labels map[string]string) string {
	filter := fmt.Sprintf("metric.type=%q AND resource.type=\"global\"", metricType)
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		filter += fmt.Sprintf(" AND metric.label.%s=%q", k, labels[k])
	}
	return filter
}

func latestQuery(filter string) *dashboardpb.TimeSeriesQuery {
	return &dashboardpb.TimeSeriesQuery{
		Source: &dashboardpb.TimeSeriesQuery_TimeSeriesFilter{
			TimeSeriesFilter: &dashboardpb.TimeSeriesFilter{
				Filter: filter,
				Aggregation: &dashboardpb.Aggregation{
					AlignmentPeriod:  durationpb.New(alignmentPeriod),
					PerSeriesAligner: dashboardpb.Aggregation_ALIGN_MEAN,
				},
			},
		},
	}
}

func totalCostCard(scenarioID, vendor string, product bool) *dashboardpb.Widget {
	title := vendor + " total cost"
	if product {
		title += " (product)"
	}
	return &dashboardpb.Widget{
		Title: title,
		Content: &dashboardpb.Widget_Scorecard{
			Scorecard: &dashboardpb.Scorecard{
				TimeSeriesQuery: latestQuery(MetricFilter(planner.MetricTotalCost, map[string]string{
					planner.LabelScenario: scenarioID,
					planner.LabelVendor:   vendor,
				})),
			},
		},
	}
}

func vendorChart(title, metricType, scenarioID string) *dashboardpb.Widget {
	return &dashboardpb.Widget{
		Title: title,
		Content: &dashboardpb.Widget_XyChart{
			XyChart: &dashboardpb.XyChart{
				DataSets: []*dashboardpb.XyChart_DataSet{{
					TimeSeriesQuery: latestQuery(MetricFilter(metricType, map[string]string{planner.LabelScenario: scenarioID})),
					PlotType:        dashboardpb.XyChart_DataSet_LINE,
					LegendTemplate:  "${metric.label.vendor}",
				}},
				YAxis: &dashboardpb.XyChart_Axis{
					Label: "USD",
					Scale: dashboardpb.XyChart_Axis_LINEAR,
				},
			},
		},
	}
}

func breachChart(scenarioID string) *dashboardpb.Widget {
	return &dashboardpb.Widget{
		Title: "Annual breach risk",
		Content: &dashboardpb.Widget_XyChart{
			XyChart: &dashboardpb.XyChart{
				DataSets: []*dashboardpb.XyChart_DataSet{{
					TimeSeriesQuery: latestQuery(MetricFilter(planner.MetricBreachRisk, map[string]string{planner.LabelScenario: scenarioID})),
					PlotType:        dashboardpb.XyChart_DataSet_LINE,
					LegendTemplate:  "${metric.label.mitigation} mitigation",
				}},
				YAxis: &dashboardpb.XyChart_Axis{
					Label: "USD per year",
					Scale: dashboardpb.XyChart_Axis_LINEAR,
				},
			},
		},
	}
}

func costTable(scenarioID string) *dashboardpb.Widget {
	var dataSets []*dashboardpb.TimeSeriesTable_TableDataSet
	for _, m := range []struct{ metricType, template string }{
		{planner.MetricInitialCost, "initial ${metric.label.vendor}"},
		{planner.MetricAnnualCost, "annual ${metric.label.vendor}"},
		{planner.MetricTotalCost, "total ${metric.label.vendor}"},
	} {
		query := latestQuery(MetricFilter(m.metricType, map[string]string{planner.LabelScenario: scenarioID}))
		query.OutputFullDuration = true
		dataSets = append(dataSets, &dashboardpb.TimeSeriesTable_TableDataSet{
			TimeSeriesQuery: query,
			TableTemplate:   m.template,
		})
	}
	return &dashboardpb.Widget{
		Title: "Cost breakdown",
		Content: &dashboardpb.Widget_TimeSeriesTable{
			TimeSeriesTable: &dashboardpb.TimeSeriesTable{
				DataSets: dataSets,
			},
		},
	}
}

func limitVendors(vendors []string, max int) []string {
	if max <= 0 || len(vendors) <= max {
		return vendors
	}
	return vendors[:max]
}

func metricDescriptorName(project, metricType string) string {
	return fmt.Sprintf("projects/%s/metricDescriptors/%s", project, metricType)
}

func sameLabels(existing []*label.LabelDescriptor, keys []string) bool {
	if len(existing) != len(keys) {
		return false
	}
	have := make(map[string]bool, len(existing))
	for _, l := range existing {
		have[l.GetKey()] = true
	}
	for _, k := range keys {
		if !have[k] {
			return false
		}
	}
	return true
}

func hasManagedLabel(labels map[string]string, filter map[string]string) bool {
	if len(labels) == 0 {
		return false
	}
	for key, value := range filter {
		if labels[key] != value {
			return false
		}
	}
	return true
}

package history

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	points []Point
	err    error
}

func (f fakeReader) TotalCostPoints(ctx context.Context, project, scenarioID string, start, end time.Time) ([]Point, error) {
	return f.points, f.err
}

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSummarizeOrdersByTime(t *testing.T) {
	points := []Point{
		{Vendor: "portnox", At: base.Add(48 * time.Hour), Value: 260000},
		{Vendor: "cisco-ise", At: base, Value: 1000000},
		{Vendor: "portnox", At: base, Value: 250000},
		{Vendor: "cisco-ise", At: base.Add(24 * time.Hour), Value: 1100000},
	}
	trends := Summarize(points)
	require.Len(t, trends, 2)

	assert.Equal(t, "cisco-ise", trends[0].Vendor)
	assert.Equal(t, 100000.0, trends[0].Change)
	assert.InDelta(t, 10, trends[0].ChangePercent, 1e-9)

	assert.Equal(t, "portnox", trends[1].Vendor)
	assert.Equal(t, []float64{250000, 260000}, trends[1].Values)
	assert.Equal(t, base.Add(48*time.Hour), trends[1].LastAt)
}

func TestRun(t *testing.T) {
	reader := fakeReader{points: []Point{{Vendor: "portnox", At: base, Value: 1}}}
	result, err := Run(context.Background(), reader, Options{Project: "demo", Scenario: "hospital", Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.Len(t, result.Vendors, 1)

	_, err = Run(context.Background(), reader, Options{Scenario: "hospital"})
	require.Error(t, err)
}

func TestResolveWindowLast(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	start, end, err := ResolveWindow("", "", 90*time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, now, end)
	assert.Equal(t, 90*time.Minute, end.Sub(start))

	_, _, err = ResolveWindow("2025-01-02T00:00:00Z", "2025-01-01T00:00:00Z", 0, now)
	require.Error(t, err)
}

func TestParseLast(t *testing.T) {
	d, err := ParseLast("720h")
	require.NoError(t, err)
	assert.Equal(t, 720*time.Hour, d)

	_, err = ParseLast("-1h")
	require.Error(t, err)
}

func TestCostFilterAndPointValue(t *testing.T) {
	assert.Equal(t, `metric.type="custom.googleapis.com/outlay/tco/total_cost" AND metric.label.scenario="hospital"`, costFilter("hospital"))

	v, ok := pointValue(&monitoringpb.TypedValue{Value: &monitoringpb.TypedValue_Int64Value{Int64Value: 7}})
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)
	_, ok = pointValue(&monitoringpb.TypedValue{Value: &monitoringpb.TypedValue_BoolValue{BoolValue: true}})
	assert.False(t, ok)
}

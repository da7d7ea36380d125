package planner

import (
	"fmt"
	"io"
	"strings"
)

func Render(w io.Writer, plan Plan) {
	fmt.Fprintf(w, "Project: %s\n", plan.Project)
	fmt.Fprintf(w, "Scenario: %s\n", plan.Scenario)
	fmt.Fprintf(w, "Run: %s\n", plan.RunID)
	fmt.Fprintf(w, "Labels: %s\n", strings.Join(SortedLabels(plan.Labels), ", "))
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, "Metric descriptors:")
	for _, m := range plan.Metrics {
		fmt.Fprintf(w, "- %s (%s, labels %v)\n", m.Type, m.Unit, m.LabelKeys)
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Time series:")
	for _, s := range plan.Series {
		fmt.Fprintf(w, "- %s %s = %.2f\n", strings.TrimPrefix(s.MetricType, MetricPrefix), strings.Join(SortedLabels(s.Labels), ","), s.Value)
	}

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Dashboard: %s\n", plan.Dashboard.ID)
}

// Package plot draws sensitivity series as terminal charts.
package plot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bayneri/outlay/internal/history"
	"github.com/bayneri/outlay/internal/sensitivity"
	"github.com/guptarohit/asciigraph"
)

var palette = []asciigraph.AnsiColor{
	asciigraph.Green,
	asciigraph.Red,
	asciigraph.Blue,
	asciigraph.Yellow,
	asciigraph.Cyan,
	asciigraph.Magenta,
}

type Options struct {
	Height int
	Width  int
	Color  bool
}

// Sensitivity renders one line per vendor followed by a legend and the
// breakevens found in the sweep.
func Sensitivity(r sensitivity.Result, opts Options) (string, error) {
	if len(r.VendorIDs) == 0 || len(r.SampledValues) == 0 {
		return "", errors.New("nothing to plot")
	}
	if opts.Height <= 0 {
		opts.Height = 12
	}
	var data [][]float64
	for _, id := range r.VendorIDs {
		data = append(data, r.Series[id])
	}
	first, last := r.SampledValues[0], r.SampledValues[len(r.SampledValues)-1]
	graphOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Caption(fmt.Sprintf("total cost by %s (%.4g to %.4g)", r.ParameterName, first, last)),
	}
	if opts.Width > 0 {
		graphOpts = append(graphOpts, asciigraph.Width(opts.Width))
	}
	if opts.Color {
		graphOpts = append(graphOpts, asciigraph.SeriesColors(colors(len(data))...))
	}

	var b strings.Builder
	b.WriteString(asciigraph.PlotMany(data, graphOpts...))
	b.WriteString("\n\n")
	for i, id := range r.VendorIDs {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, id)
	}
	for _, be := range r.Breakevens {
		fmt.Fprintf(&b, "  %s = %s at %s %.4g\n", be.VendorA, be.VendorB, r.ParameterName, be.ParameterValue)
	}
	return b.String(), nil
}

func colors(n int) []asciigraph.AnsiColor {
	out := make([]asciigraph.AnsiColor, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}

// Trends renders each vendor's published total cost over time.
func Trends(trends []history.VendorTrend, opts Options) (string, error) {
	var data [][]float64
	var b strings.Builder
	for i, t := range trends {
		if len(t.Values) == 0 {
			continue
		}
		data = append(data, t.Values)
		fmt.Fprintf(&b, "  %d. %s\n", i+1, t.Vendor)
	}
	if len(data) == 0 {
		return "", errors.New("nothing to plot")
	}
	if opts.Height <= 0 {
		opts.Height = 12
	}
	graphOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Caption("published total cost"),
	}
	if opts.Width > 0 {
		graphOpts = append(graphOpts, asciigraph.Width(opts.Width))
	}
	if opts.Color {
		graphOpts = append(graphOpts, asciigraph.SeriesColors(colors(len(data))...))
	}
	return asciigraph.PlotMany(data, graphOpts...) + "\n\n" + b.String(), nil
}

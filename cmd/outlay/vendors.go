package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/bayneri/outlay/internal/catalog"
	"github.com/bayneri/outlay/internal/report"
	"github.com/spf13/cobra"
)

type vendorSummary struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Type         catalog.VendorType `json:"type"`
	FeatureScore float64            `json:"featureScore"`
}

func newVendorsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "Inspect the vendor catalog",
	}
	cmd.AddCommand(newVendorsListCmd(opts), newVendorsShowCmd(opts))
	return cmd
}

func newVendorsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog vendors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.catalog()
			if err != nil {
				return err
			}
			profiles, err := c.VendorsByID(c.VendorIDs())
			if err != nil {
				return err
			}
			var out []vendorSummary
			for _, v := range profiles {
				out = append(out, vendorSummary{ID: v.ID, Name: v.Name, Type: v.Type, FeatureScore: v.FeatureScore()})
			}
			return render(opts.out, opts.output, out, func(w io.Writer) {
				fmt.Fprintf(w, "%-18s %-8s %8s  %s\n", "VENDOR_ID", "TYPE", "FEATURES", "NAME")
				for _, v := range out {
					fmt.Fprintf(w, "%-18s %-8s %8.2f  %s\n", v.ID, v.Type, v.FeatureScore, v.Name)
				}
			})
		},
	}
}

func newVendorsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show VENDOR_ID",
		Short: "Show a vendor's cost profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.catalog()
			if err != nil {
				return err
			}
			v, err := c.Vendor(args[0])
			if err != nil {
				return err
			}
			return render(opts.out, opts.output, v, func(w io.Writer) {
				printVendor(w, v)
			})
		},
	}
}

func printVendor(w io.Writer, v catalog.VendorProfile) {
	headerColor.Fprintf(w, "%s (%s)\n", v.Name, v.ID)
	fmt.Fprintf(w, "Type:                 %s\n", v.Type)
	fmt.Fprintf(w, "Hardware per device:  %s\n", report.Money(v.Costs.HardwarePerDevice))
	fmt.Fprintf(w, "License per device/yr: %s\n", report.Money(v.Costs.LicensePerDeviceYear))
	fmt.Fprintf(w, "Implementation:       %s\n", report.Money(v.Costs.ImplementationFlat))
	fmt.Fprintf(w, "Maintenance per year: %s\n", report.Money(v.Costs.MaintenancePerYear))
	fmt.Fprintf(w, "Staffing:             %.2f FTE at %s\n", v.Costs.FTECount, report.Money(v.Costs.FTECostPerYear))
	fmt.Fprintf(w, "Downtime per year:    %.1f hours\n", v.DowntimeHoursPerYear)
	fmt.Fprintf(w, "Feature score:        %.2f\n", v.FeatureScore())
	if len(v.Features) == 0 {
		return
	}
	names := make([]string, 0, len(v.Features))
	for name := range v.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mutedColor.Fprintf(w, "  %-24s %d\n", name, v.Features[name])
	}
}

package scenario

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/bayneri/outlay/internal/catalog"
	"github.com/bayneri/outlay/internal/sensitivity"
	"gopkg.in/yaml.v3"
)

// InitOptions describe a starter scenario. Vendors lists the product first;
// an empty list compares every catalog vendor.
type InitOptions struct {
	Name        string
	Project     string
	Preset      string
	Industry    string
	Vendors     []string
	DataRecords int64
	Sweep       bool
	Labels      map[string]string
}

type InitResult struct {
	Scenario Scenario
	Warnings []string
}

// Init drafts a scenario from a preset. Unknown vendors are skipped with a
// warning rather than failing the whole draft.
func Init(c *catalog.Catalog, opts InitOptions) (InitResult, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return InitResult{}, errors.New("--name is required")
	}
	if strings.TrimSpace(opts.Industry) == "" {
		return InitResult{}, errors.New("--industry is required")
	}
	if _, err := c.Industry(opts.Industry); err != nil {
		return InitResult{}, err
	}
	if opts.Preset == "" {
		opts.Preset = "midmarket"
	}
	preset, err := PresetFor(opts.Preset)
	if err != nil {
		return InitResult{}, err
	}

	var warnings []string
	requested := opts.Vendors
	if len(requested) == 0 {
		requested = c.VendorIDs()
		warnings = append(warnings, fmt.Sprintf("no vendors given; comparing all catalog vendors with %s as the product", requested[0]))
	}
	var vendors []string
	seen := map[string]bool{}
	for _, id := range requested {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, err := c.Vendor(id); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %s: %v", id, err))
			continue
		}
		vendors = append(vendors, id)
	}
	if len(vendors) == 0 {
		return InitResult{}, errors.New("no known vendors to compare")
	}
	if len(vendors) == 1 {
		warnings = append(warnings, "only one vendor; the analysis will have no comparisons")
	}

	s := Scenario{
		APIVersion: APIVersionV1,
		Kind:       KindTCOAnalysis,
		Metadata: Metadata{
			Name:    opts.Name,
			Project: opts.Project,
			Labels:  opts.Labels,
		},
		Preset:     preset.Name,
		Parameters: Parameters{Industry: opts.Industry},
		Vendors:    vendors,
	}
	if opts.DataRecords > 0 {
		s.Breach = &Breach{DataRecords: opts.DataRecords}
	}
	if opts.Sweep {
		s.Sensitivity = []sensitivity.Sweep{{
			Parameter: sensitivity.DeviceCount,
			Min:       math.Max(1, float64(preset.DeviceCount/10)),
			Max:       float64(preset.DeviceCount * 4),
			Steps:     20,
		}}
	}
	if err := s.Validate(c); err != nil {
		return InitResult{}, fmt.Errorf("drafted scenario is invalid: %w", err)
	}
	return InitResult{Scenario: s, Warnings: warnings}, nil
}

func Marshal(s Scenario) ([]byte, error) {
	return yaml.Marshal(s)
}

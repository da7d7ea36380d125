package main

import (
	"fmt"
	"strings"

	"github.com/bayneri/outlay/internal/scenario"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a scenario file against the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.catalog()
			if err != nil {
				return err
			}
			s, err := loadScenario(file)
			if err != nil {
				return err
			}
			if err := s.Validate(c); err != nil {
				return invalid(err)
			}
			goodColor.Fprintf(opts.out, "Scenario %s is valid.\n", s.Metadata.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to scenario YAML")
	return cmd
}

func loadScenario(path string) (scenario.Scenario, error) {
	if strings.TrimSpace(path) == "" {
		return scenario.Scenario{}, invalid(fmt.Errorf("-f is required"))
	}
	s, err := scenario.Load(path)
	if err != nil {
		return scenario.Scenario{}, invalid(err)
	}
	return s, nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/bayneri/outlay/internal/explain"
	"github.com/spf13/cobra"
)

func newExplainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "explain TOPIC",
		Short:     fmt.Sprintf("Explain how a figure is computed (%s)", strings.Join(explain.Topics(), ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: explain.Topics(),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := explain.Topic(args[0])
			if err != nil {
				return invalid(err)
			}
			fmt.Fprintln(opts.out, text)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bayneri/outlay/internal/catalog"
	"github.com/bayneri/outlay/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "0.1.0" // Overwritten at build time

type rootOptions struct {
	catalogPath string
	logLevel    string
	output      string

	out    io.Writer
	errOut io.Writer
}

func main() {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{out: out, errOut: errOut}
	rootCmd := &cobra.Command{
		Use:   "outlay",
		Short: "Total cost of ownership for network access control",
		Long: `outlay compares the multi-year cost of network access control vendors,
estimates breach exposure with and without the product deployed, and finds
where vendor costs cross as a parameter is swept.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.catalogPath, "catalog", "", "YAML catalog merged over the built-in vendor and industry tables")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVarP(&opts.output, "output", "o", "human", "output format (human, json, yaml)")

	rootCmd.AddCommand(
		newAnalyzeCmd(opts),
		newTCOCmd(opts),
		newBreachCmd(opts),
		newSensitivityCmd(opts),
		newVendorsCmd(opts),
		newValidateCmd(opts),
		newInitCmd(opts),
		newExportCmd(opts),
		newPublishCmd(opts),
		newDeleteCmd(opts),
		newHistoryCmd(opts),
		newReportCmd(opts),
		newExplainCmd(opts),
		newVersionCmd(opts),
	)
	return rootCmd
}

func (o *rootOptions) catalog() (*catalog.Catalog, error) {
	return catalog.LoadWithOverride(o.catalogPath)
}

func (o *rootOptions) logger() (zerolog.Logger, error) {
	return logging.New(o.logLevel, o.errOut)
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(opts.out, "outlay version %s\n", version)
		},
	}
}

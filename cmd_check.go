package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/zrd/lib"
)

func newCheckCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the configuration for errors",
		Long: `check resolves the configuration from the config file and flags
and reports anything suspicious as an error instead of a warning.

Example:
  zrd check --config zrd.config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := lib.Check(lib.CrashOnError, s.raw, s.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "No errors detected.")
			return nil
		},
	}
}

func newExampleConfigCmd(_ *session) *cobra.Command {
	return &cobra.Command{
		Use:   "example-config",
		Short: "Print an example config file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), lib.ExampleConfig)
		},
	}
}

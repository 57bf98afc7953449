package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInfoCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Print the header and size of ray files",
		Long: `info prints the variant, version, declared maximum segments per
ray, and the number of rays and segments in each file. Files are read
concurrently.

Example:
  zrd info lens.zrd stop.zrd`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			return runInfo(s, cmd, paths)
		},
	}
}

func runInfo(s *session, cmd *cobra.Command, paths []string) error {
	files, err := readAll(s, paths)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tVARIANT\tVERSION\tMAX SEGMENTS\tRAYS\tSEGMENTS\tLONGEST")
	for i, f := range files {
		longest := 0
		for _, ray := range f.Rays {
			if len(ray) > longest {
				longest = len(ray)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			paths[i], f.Header.Variant, f.Header.Version,
			f.MaxSegmentsPerRay, len(f.Rays), f.Segments(), longest)
	}
	return tw.Flush()
}

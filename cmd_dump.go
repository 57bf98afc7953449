package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/zrd/lib/format"
	"github.com/phil-mansfield/zrd/lib/rayio"
)

func newDumpCmd(s *session) *cobra.Command {
	var raySeq, fieldList string

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the segments of a ray file as a table",
		Long: `dump prints one row per segment. Rays are chosen with a sequence
format and columns with a comma-separated list of field names.

Example:
  zrd dump lens.zrd --rays "0..10 + 20 - 5" --fields level,hit_object,x,y,z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(s, cmd, args[0], raySeq, fieldList)
		},
	}
	cmd.Flags().StringVar(&raySeq, "rays", "",
		"sequence format of rays to print (default: all)")
	cmd.Flags().StringVar(&fieldList, "fields", "",
		"comma-separated fields to print (default: all)")
	return cmd
}

// parseFields converts a comma-separated list of field names to fields. An
// empty list gives every field.
func parseFields(list string) ([]rayio.Field, error) {
	if strings.TrimSpace(list) == "" {
		return rayio.Fields(), nil
	}

	out := []rayio.Field{}
	for _, name := range strings.Split(list, ",") {
		f, err := rayio.FieldByName(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// selectRays returns the indices of the rays named by a sequence format. An
// empty format selects every ray.
func selectRays(seq string, nRays int) ([]int, error) {
	if strings.TrimSpace(seq) == "" {
		out := make([]int, nRays)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}

	idx, err := format.ExpandSequenceFormat(seq)
	if err != nil {
		return nil, fmt.Errorf("The --rays format '%s' is not valid. %s",
			seq, err.Error())
	}
	for _, i := range idx {
		if i < 0 || i >= nRays {
			return nil, fmt.Errorf("--rays selects ray %d, but the file only "+
				"has %d rays.", i, nRays)
		}
	}
	return idx, nil
}

func formatValue(s *rayio.Segment, f rayio.Field) string {
	if f.Kind() == rayio.KindFloat {
		return strconv.FormatFloat(s.Value(f), 'g', -1, 64)
	}
	return strconv.FormatInt(int64(s.Value(f)), 10)
}

func runDump(
	s *session, cmd *cobra.Command, path, raySeq, fieldList string,
) error {
	fields, err := parseFields(fieldList)
	if err != nil {
		return err
	}
	f, err := rayio.ReadFile(path, s.readOptions()...)
	if err != nil {
		return err
	}
	rays, err := selectRays(raySeq, len(f.Rays))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 1, ' ', 0)
	fmt.Fprint(tw, "ray\tsegment")
	for _, field := range fields {
		fmt.Fprintf(tw, "\t%s", field.Name())
	}
	fmt.Fprintln(tw)

	for _, i := range rays {
		for j := range f.Rays[i] {
			seg := &f.Rays[i][j]
			fmt.Fprintf(tw, "%d\t%d", i, j)
			for _, field := range fields {
				fmt.Fprintf(tw, "\t%s", formatValue(seg, field))
			}
			fmt.Fprintln(tw)
		}
	}
	return tw.Flush()
}

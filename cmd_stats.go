package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/zrd/lib/rayio"
	"github.com/phil-mansfield/zrd/lib/stats"
)

func newStatsCmd(s *session) *cobra.Command {
	sel := stats.Selection{}
	var object int32

	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Print beam statistics for a ray file",
		Long: `stats prints the total intensity, the intensity-weighted centroid
and spot size, the principal axes of the spot, the mean direction, and how
far the direction cosines are from unit length.

Example:
  zrd stats lens.zrd --final
  zrd stats lens.zrd --object 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel.FilterObject = cmd.Flags().Changed("object")
			sel.Object = object
			return runStats(s, cmd, args[0], sel)
		},
	}
	cmd.Flags().BoolVar(&sel.FinalOnly, "final", false,
		"only use the last segment of each ray")
	cmd.Flags().Int32Var(&object, "object", 0,
		"only use segments which hit this object")
	return cmd
}

func runStats(
	s *session, cmd *cobra.Command, path string, sel stats.Selection,
) error {
	f, err := rayio.ReadFile(path, s.readOptions()...)
	if err != nil {
		return err
	}
	b, err := stats.Compute(f, sel)
	if err != nil {
		return err
	}
	printBeam(cmd.OutOrStdout(), path, b)
	return nil
}

func printBeam(w io.Writer, path string, b *stats.Beam) {
	fmt.Fprintf(w, "# %s\n", path)
	fmt.Fprintf(w, "rays              %d (%d empty)\n", b.Rays, b.EmptyRays)
	fmt.Fprintf(w, "segments          %d\n", b.Segments)
	fmt.Fprintf(w, "total intensity   %.6g\n", b.TotalIntensity)
	if b.NegativeIntensity > 0 {
		fmt.Fprintf(w, "negative intensity %d segments (ignored)\n",
			b.NegativeIntensity)
	}
	fmt.Fprintf(w, "centroid          %.6g %.6g %.6g\n",
		b.Centroid[0], b.Centroid[1], b.Centroid[2])
	fmt.Fprintf(w, "mean direction    %.6g %.6g %.6g\n",
		b.MeanDirection[0], b.MeanDirection[1], b.MeanDirection[2])
	fmt.Fprintf(w, "spot rms          %.6g %.6g %.6g\n",
		b.SpotRMS[0], b.SpotRMS[1], b.SpotRMS[2])
	for k := range b.Axes {
		fmt.Fprintf(w, "axis %d            %.6g %.6g %.6g\n",
			k, b.Axes[k][0], b.Axes[k][1], b.Axes[k][2])
	}
	fmt.Fprintf(w, "axis ratio        %.6g\n", b.AxisRatio())
	fmt.Fprintf(w, "cosine error      max %.3g rms %.3g\n",
		b.MaxCosineError, b.RMSCosineError)
	fmt.Fprintf(w, "hit objects      ")
	for _, obj := range b.Objects() {
		fmt.Fprintf(w, " %d:%d", obj, b.HitObjects[obj])
	}
	fmt.Fprintln(w)
}

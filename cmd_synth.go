package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/zrd/lib/format"
	"github.com/phil-mansfield/zrd/lib/rayio"
	"github.com/phil-mansfield/zrd/lib/thread"
)

type synthFlags struct {
	rays     int
	segments int
	seed     uint64
}

func newSynthCmd(s *session) *cobra.Command {
	flags := &synthFlags{}

	cmd := &cobra.Command{
		Use:   "synth OUT",
		Short: "Write synthetic ray files",
		Long: `synth writes uncompressed full-data ray files filled with
plausible, deterministic rays. OUT may be a file format, in which case one
file is written per name and each file uses the next seed.

Example:
  zrd synth test.zrd --rays 1000 --segments 8 --seed 7
  zrd synth "synth/rays.{%03d,0..9}.zrd" --compression zstd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(s, cmd, args[0], flags)
		},
	}
	cmd.Flags().IntVar(&flags.rays, "rays", 100, "number of rays per file")
	cmd.Flags().IntVar(&flags.segments, "segments", 10,
		"largest number of segments in a ray")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "random seed")
	return cmd
}

func runSynth(
	s *session, cmd *cobra.Command, out string, flags *synthFlags,
) error {
	if flags.rays < 0 || flags.segments < 0 {
		return fmt.Errorf("--rays and --segments must be non-negative, but "+
			"were %d and %d.", flags.rays, flags.segments)
	}
	if flags.segments > s.args.MaxSegments {
		s.logger.Warn("synthetic rays may be longer than MaxSegments and "+
			"will stop reads early", "segments", flags.segments,
			"max_segments", s.args.MaxSegments)
	}

	names, err := format.ExpandFileFormat(out)
	if err != nil {
		return err
	}

	err = thread.WorkerQueue(cmd.Context(), s.args.Threads, len(names),
		func(_ context.Context, _, job int) error {
			f := rayio.FakeRayFile(flags.rays, flags.segments,
				flags.seed+uint64(job))
			s.logger.Debug("writing synthetic ray file", "path", names[job],
				"rays", len(f.Rays), "segments", f.Segments())
			return rayio.WriteFile(names[job], f, rayio.UncompressedFullData,
				s.args.Compression, s.writeOptions(nil)...)
		})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d file(s).\n", len(names))
	return nil
}

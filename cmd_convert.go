package main

import (
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/zrd/lib"
	"github.com/phil-mansfield/zrd/lib/rayio"
)

func newConvertCmd(s *session) *cobra.Command {
	var outOrder string

	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Rewrite a ray file with a different wrapping or byte order",
		Long: `convert reads IN and writes its rays to OUT. OUT is wrapped with
the configured compression (--compression) and written with --out-byte-order,
which defaults to the byte order IN was read with.

Example:
  zrd convert lens.zrd lens.zrd.zst --compression zstd
  zrd convert lens.zrd lens.be.zrd --out-byte-order big`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(s, args[0], args[1], outOrder)
		},
	}
	cmd.Flags().StringVar(&outOrder, "out-byte-order", "",
		"byte order of OUT: native, little, or big")
	return cmd
}

func runConvert(s *session, in, out, outOrder string) error {
	f, err := rayio.ReadFile(in, s.readOptions()...)
	if err != nil {
		return err
	}

	order := s.args.ByteOrder
	if outOrder != "" {
		if order, err = lib.ParseByteOrder(outOrder); err != nil {
			return err
		}
	}

	s.logger.Info("converting ray file", "in", in, "out", out,
		"rays", len(f.Rays), "compression", s.args.Compression.String(),
		"byte_order", lib.ByteOrderName(order))
	return rayio.WriteFile(out, f, f.Header.Variant,
		s.args.Compression, s.writeOptions(order)...)
}

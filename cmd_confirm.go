package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/zrd/lib/compress"
	"github.com/phil-mansfield/zrd/lib/eq"
	"github.com/phil-mansfield/zrd/lib/rayio"
	"github.com/phil-mansfield/zrd/lib/thread"
)

func newConfirmCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm FILE...",
		Short: "Check that ray files survive a read/write round trip",
		Long: `confirm reads each file, writes it again in memory, and reads the
result back. It fails if any segment changes or if the rewritten bytes differ
from the (unwrapped) bytes of the original file.

Example:
  zrd confirm lens.zrd stop.zrd.zst`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			return runConfirm(s, cmd, paths)
		},
	}
}

func runConfirm(s *session, cmd *cobra.Command, paths []string) error {
	err := thread.WorkerQueue(cmd.Context(), s.args.Threads, len(paths),
		func(_ context.Context, _, job int) error {
			return confirmFile(s, paths[job])
		})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "No errors detected.")
	return nil
}

// confirmFile runs the round trip on a single file.
func confirmFile(s *session, path string) error {
	raw, method, err := unwrapFile(path)
	if err != nil {
		return err
	}
	s.logger.Debug("confirming ray file", "path", path,
		"compression", method.String(), "bytes", len(raw))

	f, err := rayio.ReadRays(bytes.NewReader(raw), s.readOptions()...)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	buf := &bytes.Buffer{}
	err = rayio.WriteRays(buf, f, f.Header.Variant, s.writeOptions(nil)...)
	if err != nil {
		return fmt.Errorf("%s: could not re-encode: %w", path, err)
	}

	g, err := rayio.ReadRays(bytes.NewReader(buf.Bytes()), s.readOptions()...)
	if err != nil {
		return fmt.Errorf("%s: could not read re-encoded rays: %w", path, err)
	}
	if diff := eq.Diff(f, g); diff != "" {
		return fmt.Errorf("%s: rays changed after a round trip: %s", path, diff)
	}

	if !eq.Bytes(raw, buf.Bytes()) {
		if len(raw) > buf.Len() && bytes.Equal(raw[:buf.Len()], buf.Bytes()) {
			return fmt.Errorf("%s: only the first %d of %d bytes were "+
				"read. A ray after ray %d claims more segments than "+
				"MaxSegments allows, or is corrupt.",
				path, buf.Len(), len(raw), len(f.Rays)-1)
		}
		return fmt.Errorf("%s: re-encoded bytes differ from the file's "+
			"bytes. Check that ByteOrder matches the file.", path)
	}
	return nil
}

// unwrapFile returns the full contents of a ray file with any zstd or lz4
// wrapping removed.
func unwrapFile(path string) ([]byte, compress.Method, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, compress.None, err
	}
	defer file.Close()

	rc, method, err := compress.NewReader(file)
	if err != nil {
		return nil, compress.None, fmt.Errorf("%s: %w", path, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, method, fmt.Errorf("%s: %w", path, err)
	}
	return raw, method, nil
}

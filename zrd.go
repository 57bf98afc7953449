/*zrd reads, writes, checks, and summarizes ZRD ray files.

Run "zrd help" for the list of modes.
*/
package main

import (
	"encoding/binary"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/zrd/lib"
	zrd_error "github.com/phil-mansfield/zrd/lib/error"
	"github.com/phil-mansfield/zrd/lib/rayio"
	"github.com/phil-mansfield/zrd/lib/thread"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		zrd_error.External("%s", err.Error())
	}
}

// session holds everything shared between the modes of a single run: the
// global flag values, the configuration they resolve to, and the logger.
type session struct {
	configFile  string
	maxSegments int64
	byteOrder   string
	compression string
	threads     int64
	logLevel    string
	logFormat   string

	raw    *lib.RawArgs
	args   *lib.Args
	logger *slog.Logger
	stderr io.Writer
}

func newRootCmd() *cobra.Command {
	s := &session{stderr: os.Stderr}

	root := &cobra.Command{
		Use:   "zrd",
		Short: "zrd - a reader and writer for ZRD ray files",
		Long: `zrd reads, writes, checks, and summarizes the binary ray files
written by optical ray tracers. Every segment of every traced ray is kept
exactly: files which are read and written again are byte-for-byte identical.

Only uncompressed full-data files can be read or written. Files may be
wrapped in zstd or lz4 frames, which are recognized automatically.`,
		Version:       lib.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.load(cmd, lib.WarnOnError)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&s.configFile, "config", "c", "",
		"config file to read settings from (see 'zrd example-config')")
	flags.Int64Var(&s.maxSegments, "max-segments", 0,
		"largest segment count a ray may claim before reading stops")
	flags.StringVar(&s.byteOrder, "byte-order", "",
		"byte order of ray files: native, little, or big")
	flags.StringVar(&s.compression, "compression", "",
		"wrapping used for written files: none, zstd, or lz4")
	flags.Int64Var(&s.threads, "threads", 0,
		"number of files processed at once, -1 for one per core")
	flags.StringVar(&s.logLevel, "log-level", "",
		"log level: debug, info, warn, or error")
	flags.StringVar(&s.logFormat, "log-format", "",
		"log format: text or json")

	root.AddCommand(
		newInfoCmd(s),
		newDumpCmd(s),
		newStatsCmd(s),
		newConfirmCmd(s),
		newConvertCmd(s),
		newSynthCmd(s),
		newCheckCmd(s),
		newExampleConfigCmd(s),
	)
	return root
}

// flagArgs returns a RawArgs holding only the global flags which were set on
// the command line.
func (s *session) flagArgs(cmd *cobra.Command) *lib.RawArgs {
	out := &lib.RawArgs{}
	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	if changed("max-segments") {
		out.Zrd.MaxSegments = s.maxSegments
	}
	if changed("byte-order") {
		out.Zrd.ByteOrder = s.byteOrder
	}
	if changed("compression") {
		out.Zrd.Compression = s.compression
	}
	if changed("threads") {
		out.Zrd.Threads = s.threads
	}
	if changed("log-level") {
		out.Zrd.LogLevel = s.logLevel
	}
	if changed("log-format") {
		out.Zrd.LogFormat = s.logFormat
	}
	return out
}

// load resolves the configuration for this run: defaults, then the config
// file, then command line flags.
func (s *session) load(cmd *cobra.Command, strictness lib.CheckStrictness) error {
	raw, err := lib.ParseConfigFile(s.configFile)
	if err != nil {
		return err
	}
	raw.Overwrite(s.flagArgs(cmd))
	// Overwrite treats 0 as unset, but an explicit 0 is a valid guard.
	if cmd.Flags().Changed("max-segments") && s.maxSegments == 0 {
		raw.Zrd.MaxSegments = 0
	}

	args, err := raw.Process()
	if err != nil {
		return err
	}
	logger, err := lib.NewLogger(s.stderr, args.LogLevel, args.LogFormat)
	if err != nil {
		return err
	}
	zrd_error.SetLogger(logger)

	args, err = lib.Check(strictness, raw, logger)
	if err != nil {
		return err
	}
	if err := thread.Set(args.Threads); err != nil {
		return err
	}

	s.raw, s.args, s.logger = raw, args, logger
	logger.Debug("configuration loaded", "config", s.configFile,
		"max_segments", args.MaxSegments,
		"byte_order", lib.ByteOrderName(args.ByteOrder),
		"compression", args.Compression.String(),
		"threads", args.Threads)
	return nil
}

// readOptions returns the reader options implied by the configuration.
func (s *session) readOptions() []rayio.ReadOption {
	return []rayio.ReadOption{
		rayio.WithMaxSegments(s.args.MaxSegments),
		rayio.WithByteOrder(s.args.ByteOrder),
		rayio.WithLogger(s.logger),
	}
}

// writeOptions returns the writer options for the given byte order, falling
// back to the configured order if it's nil.
func (s *session) writeOptions(order binary.ByteOrder) []rayio.WriteOption {
	if order == nil {
		order = s.args.ByteOrder
	}
	return []rayio.WriteOption{rayio.WithWriteByteOrder(order)}
}

// readAll reads every file in paths with the configured number of threads.
func readAll(s *session, paths []string) ([]*rayio.RayFile, error) {
	return rayio.ReadFiles(paths, s.args.Threads, s.readOptions()...)
}

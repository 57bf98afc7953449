package lib

/* check.go contains the core functions of zrd's "check" mode. */

import (
	"fmt"
	"log/slog"
	"runtime"
)

// ufdRecordBytes is the size of one uncompressed full-data segment record.
const ufdRecordBytes = 208

// Check runs the "check" mode on the provided RawArgs. Fatal problems are
// always returned as errors. Problems which are only suspicious are logged
// as warnings under WarnOnError and returned as errors under CrashOnError.
// Check returns the processed arguments if no error was returned.
func Check(
	strictness CheckStrictness, raw *RawArgs, logger *slog.Logger,
) (*Args, error) {
	args, err := raw.Process()
	if err != nil {
		return nil, err
	}

	var warnings []string
	if args.MaxSegments > BigMaxSegments {
		warnings = append(warnings, fmt.Sprintf("MaxSegments is %d. A "+
			"single corrupt segment count could make zrd allocate %d MB "+
			"for one ray.", args.MaxSegments, args.MaxSegments*ufdRecordBytes>>20))
	}
	if args.MaxSegments == 0 {
		warnings = append(warnings, "MaxSegments is 0, so reading will "+
			"stop at the first ray which has any segments.")
	}
	if args.Threads > runtime.NumCPU() {
		warnings = append(warnings, fmt.Sprintf("%d threads requested, but "+
			"this system only has %d cores. If you want zrd to use one "+
			"thread per core, set Threads = -1.",
			args.Threads, runtime.NumCPU()))
	}

	for _, w := range warnings {
		if strictness == CrashOnError {
			return nil, fmt.Errorf("%s", w)
		}
		logger.Warn(w)
	}

	return args, nil
}

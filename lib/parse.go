package lib

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"runtime"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/zrd/lib/compress"
)

const (
	// DefaultMaxSegments is the default per-ray segment guard. Rays which
	// claim more segments than this end the read.
	DefaultMaxSegments = 1000
	// BigMaxSegments is the guard size above which "check" warns that a
	// single corrupt count could allocate a lot of memory.
	BigMaxSegments = 1 << 20
)

// RawArgs stores the unprocessed values which the user assigned to each config
// variable. Zero values mean "not set" when one RawArgs overwrites another.
type RawArgs struct {
	Zrd struct {
		MaxSegments int64
		ByteOrder   string
		Compression string
		Threads     int64
		LogLevel    string
		LogFormat   string
	}
}

// Args stores configuration information. It is a post-processed version of
// RawArgs.
type Args struct {
	MaxSegments int
	ByteOrder   binary.ByteOrder
	Compression compress.Method
	Threads     int
	LogLevel    slog.Level
	LogFormat   string
}

// DefaultRawArgs returns the values used for anything a config file
// doesn't set.
func DefaultRawArgs() *RawArgs {
	args := &RawArgs{}
	args.Zrd.MaxSegments = DefaultMaxSegments
	args.Zrd.ByteOrder = "native"
	args.Zrd.Compression = "none"
	args.Zrd.Threads = -1
	args.Zrd.LogLevel = "info"
	args.Zrd.LogFormat = "text"
	return args
}

// ParseConfigFile parses arguments from a config file. Variables missing from
// the file keep their default values. An empty file name returns the
// defaults.
func ParseConfigFile(fileName string) (*RawArgs, error) {
	args := DefaultRawArgs()
	if fileName == "" {
		return args, nil
	}
	if err := gcfg.ReadFileInto(args, fileName); err != nil {
		return nil, fmt.Errorf("Could not read config file '%s': %s",
			fileName, err.Error())
	}
	return args, nil
}

// ParseConfigString is ParseConfigFile for a config held in memory.
func ParseConfigString(text string) (*RawArgs, error) {
	args := DefaultRawArgs()
	if err := gcfg.ReadStringInto(args, text); err != nil {
		return nil, fmt.Errorf("Could not parse config: %s", err.Error())
	}
	return args, nil
}

// Overwrite arguments in arg1 which have been set to non-zero values in
// arg2.
func (arg1 *RawArgs) Overwrite(arg2 *RawArgs) {
	a, b := &arg1.Zrd, &arg2.Zrd
	if b.MaxSegments != 0 {
		a.MaxSegments = b.MaxSegments
	}
	if b.ByteOrder != "" {
		a.ByteOrder = b.ByteOrder
	}
	if b.Compression != "" {
		a.Compression = b.Compression
	}
	if b.Threads != 0 {
		a.Threads = b.Threads
	}
	if b.LogLevel != "" {
		a.LogLevel = b.LogLevel
	}
	if b.LogFormat != "" {
		a.LogFormat = b.LogFormat
	}
}

// Process converts the raw user input to a format which is more useful for
// internal functions. Only validation which doesn't touch files is done
// here.
func (args *RawArgs) Process() (*Args, error) {
	raw := &args.Zrd
	out := &Args{LogFormat: raw.LogFormat}

	if raw.MaxSegments < 0 {
		return nil, fmt.Errorf("MaxSegments is set to %d, but it must be "+
			"non-negative.", raw.MaxSegments)
	}
	out.MaxSegments = int(raw.MaxSegments)

	var err error
	if out.ByteOrder, err = ParseByteOrder(raw.ByteOrder); err != nil {
		return nil, err
	}
	if out.Compression, err = compress.ParseMethod(raw.Compression); err != nil {
		return nil, err
	}
	if out.LogLevel, err = ParseLogLevel(raw.LogLevel); err != nil {
		return nil, err
	}
	if _, err = NewLogger(nil, out.LogLevel, raw.LogFormat); err != nil {
		return nil, err
	}

	switch {
	case raw.Threads == -1:
		out.Threads = runtime.NumCPU()
	case raw.Threads > 0:
		out.Threads = int(raw.Threads)
	default:
		return nil, fmt.Errorf("Threads is set to %d, but it must be "+
			"positive or -1 (one thread per core).", raw.Threads)
	}

	return out, nil
}

// ExampleConfig is an annotated config file with every variable set to its
// default value.
const ExampleConfig = `[zrd]

# MaxSegments is the largest number of segments a single ray may claim. When
# a ray's segment count is larger than this, reading stops and every ray
# before it is returned. This protects against corrupt counts causing huge
# allocations.
MaxSegments = 1000

# ByteOrder is the byte order of the ray files: native, little, or big. Ray
# tracers write files in the native order of the machine they run on.
ByteOrder = native

# Compression is how newly written files are wrapped: none, zstd, or lz4.
# Wrapped files are recognized automatically when read.
Compression = none

# Threads is the number of files read at once. If set to -1, one thread will
# be used for each core.
Threads = -1

# LogLevel is one of debug, info, warn, or error. LogFormat is text or json.
LogLevel = info
LogFormat = text
`

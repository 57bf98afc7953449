package rayio

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/phil-mansfield/zrd/lib"
	"github.com/phil-mansfield/zrd/lib/compress"
	"github.com/phil-mansfield/zrd/lib/thread"
)

const (
	// DefaultMaxSegments is the default segment-count guard used by readers.
	DefaultMaxSegments = lib.DefaultMaxSegments
	// countSize is the size of the segment count which starts every ray.
	countSize = 4
	// initialRayCap caps how many segments are allocated for a ray before
	// any of its records have actually been read.
	initialRayCap = 1024
	// fileBufferSize is the size of the read buffer placed over files.
	fileBufferSize = 1 << 16
)

type readOptions struct {
	maxSegments int
	order       binary.ByteOrder
	logger      *slog.Logger
}

// ReadOption configures ReadRays, ReadFile, and ReadFiles.
type ReadOption func(*readOptions)

// WithMaxSegments sets the segment-count guard. A ray claiming more than n
// segments ends the read, and every ray before it is returned. Negative
// values are treated as 0.
func WithMaxSegments(n int) ReadOption {
	return func(opt *readOptions) {
		if n < 0 {
			n = 0
		}
		opt.maxSegments = n
	}
}

// WithByteOrder sets the byte order of the stream. The default is the byte
// order of the host.
func WithByteOrder(order binary.ByteOrder) ReadOption {
	return func(opt *readOptions) { opt.order = order }
}

// WithLogger sets the logger that guard trips and other notable events are
// reported to. By default nothing is logged.
func WithLogger(logger *slog.Logger) ReadOption {
	return func(opt *readOptions) { opt.logger = logger }
}

func newReadOptions(opts []ReadOption) *readOptions {
	opt := &readOptions{
		maxSegments: DefaultMaxSegments,
		order:       lib.SystemByteOrder(),
		logger:      lib.DiscardLogger(),
	}
	for _, f := range opts {
		f(opt)
	}
	if opt.order == nil {
		opt.order = lib.SystemByteOrder()
	}
	if opt.logger == nil {
		opt.logger = lib.DiscardLogger()
	}
	return opt
}

// ReadRays reads a full ray file from rd.
//
// Reading stops without error when the stream ends exactly before a ray's
// segment count, or when a ray claims more segments than the guard allows (or
// a negative number). In the second case the offending ray and everything
// after it are discarded.
//
// If the stream ends part way through a count or a segment record, the
// returned error matches ErrTruncatedRecord and the returned RayFile holds
// every ray which was read in full. If the header names a variant which can't
// be read, the RayFile is nil and the error is an *UnsupportedVariantError.
func ReadRays(rd io.Reader, opts ...ReadOption) (*RayFile, error) {
	return readRays(rd, newReadOptions(opts))
}

func readRays(rd io.Reader, opt *readOptions) (*RayFile, error) {
	hd, maxSegments, err := DecodeHeader(rd, opt.order)
	if err != nil {
		return nil, err
	}
	if err := CheckRead(hd.Variant); err != nil {
		return nil, err
	}

	f := &RayFile{Header: hd, MaxSegmentsPerRay: maxSegments}
	codec := CodecFor(hd.Variant)
	countBuf := make([]byte, countSize)
	var recBuf []byte

	for {
		if _, err := io.ReadFull(rd, countBuf); err != nil {
			switch {
			case err == io.EOF:
				return f, nil
			case errors.Is(err, io.ErrUnexpectedEOF):
				return f, fmt.Errorf("segment count of ray %d: %w",
					len(f.Rays), ErrTruncatedRecord)
			default:
				return f, fmt.Errorf("segment count of ray %d: %w",
					len(f.Rays), ioError("reading segment count", err))
			}
		}

		n := int32(opt.order.Uint32(countBuf))
		if n < 0 || int64(n) > int64(opt.maxSegments) {
			opt.logger.Warn("ray segment count exceeds guard, ending read",
				"ray", len(f.Rays), "segments", n,
				"max_segments", opt.maxSegments)
			return f, nil
		}

		ray := make(Ray, 0, min(int(n), initialRayCap))
		for i := 0; i < int(n); i++ {
			var s Segment
			recBuf, err = ReadSegment(rd, codec, opt.order, &s, recBuf)
			if err != nil {
				return f, fmt.Errorf("ray %d, segment %d: %w",
					len(f.Rays), i, err)
			}
			ray = append(ray, s)
		}
		f.Rays = append(f.Rays, ray)
	}
}

// ReadFile reads the ray file at path. Files wrapped in a zstd or lz4 frame
// are unwrapped automatically. Errors are the same as ReadRays, except that
// failing to open the file returns an *IOError.
func ReadFile(path string, opts ...ReadOption) (*RayFile, error) {
	opt := newReadOptions(opts)

	file, err := os.Open(path)
	if err != nil {
		return nil, ioError("opening ray file", err)
	}
	defer file.Close()

	rc, method, err := compress.NewReader(file)
	if err != nil {
		return nil, ioError(fmt.Sprintf("reading '%s'", path), err)
	}
	defer rc.Close()
	opt.logger.Debug("opened ray file", "path", path,
		"compression", method.String())

	f, err := readRays(bufio.NewReaderSize(rc, fileBufferSize), opt)
	if err != nil {
		return f, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ReadFiles reads every file in paths using up to workers files at once.
// Results are in the same order as paths. If any file fails to read, the
// first error is returned and the results should be ignored.
func ReadFiles(
	paths []string, workers int, opts ...ReadOption,
) ([]*RayFile, error) {
	out := make([]*RayFile, len(paths))
	if len(paths) == 0 {
		return out, nil
	}

	err := thread.WorkerQueue(context.Background(), workers, len(paths),
		func(ctx context.Context, worker, job int) error {
			f, err := ReadFile(paths[job], opts...)
			out[job] = f
			return err
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

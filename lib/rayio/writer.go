package rayio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/phil-mansfield/zrd/lib"
	"github.com/phil-mansfield/zrd/lib/compress"
)

type writeOptions struct {
	order binary.ByteOrder
}

// WriteOption configures WriteRays and WriteFile.
type WriteOption func(*writeOptions)

// WithWriteByteOrder sets the byte order used for output. The default is the
// byte order of the host.
func WithWriteByteOrder(order binary.ByteOrder) WriteOption {
	return func(opt *writeOptions) { opt.order = order }
}

func newWriteOptions(opts []WriteOption) *writeOptions {
	opt := &writeOptions{}
	for _, f := range opts {
		f(opt)
	}
	if opt.order == nil {
		opt.order = lib.SystemByteOrder()
	}
	return opt
}

// WriteRays writes f to wr as a ray file of variant v. The header uses
// f.Header.Version and f.MaxSegmentsPerRay; f.Header.Variant is ignored in
// favor of v. Nothing is written if v can't be written or if f can't be
// represented in the format.
func WriteRays(
	wr io.Writer, f *RayFile, v Variant, opts ...WriteOption,
) error {
	if err := CheckWrite(v); err != nil {
		return err
	}
	opt := newWriteOptions(opts)

	hd := Header{Variant: v, Version: f.Header.Version}
	if err := hd.Validate(); err != nil {
		return err
	}
	for i := range f.Rays {
		if int64(len(f.Rays[i])) > int64(maxInt32) {
			return fmt.Errorf("ray %d has %d segments, but a ray file can "+
				"store at most %d segments per ray.",
				i, len(f.Rays[i]), maxInt32)
		}
	}

	if err := EncodeHeader(wr, opt.order, hd, f.MaxSegmentsPerRay); err != nil {
		return err
	}

	codec := CodecFor(v)
	countBuf := make([]byte, countSize)
	var recBuf []byte
	for i := range f.Rays {
		ray := f.Rays[i]
		opt.order.PutUint32(countBuf, uint32(len(ray)))
		if _, err := wr.Write(countBuf); err != nil {
			return fmt.Errorf("ray %d: %w",
				i, ioError("writing segment count", err))
		}

		for j := range ray {
			var err error
			recBuf, err = WriteSegment(wr, codec, opt.order, &ray[j], recBuf)
			if err != nil {
				return fmt.Errorf("ray %d, segment %d: %w", i, j, err)
			}
		}
	}

	return nil
}

// WriteFile writes f to path as a ray file of variant v, wrapped with the
// given compression method. The file isn't created if v can't be written.
func WriteFile(
	path string, f *RayFile, v Variant,
	method compress.Method, opts ...WriteOption,
) (err error) {
	if err := CheckWrite(v); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return ioError("creating ray file", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = ioError("closing ray file", cerr)
		}
	}()

	wc, err := compress.NewWriter(file, method)
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(wc, fileBufferSize)

	if err := WriteRays(bw, f, v, opts...); err != nil {
		wc.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		wc.Close()
		return ioError(fmt.Sprintf("writing '%s'", path), err)
	}
	if err := wc.Close(); err != nil {
		return ioError(fmt.Sprintf("finishing '%s'", path), err)
	}
	return nil
}

/*package compress handles whole-file compression of ray files. A ray file on
disk may be raw, or wrapped in a single zstd or lz4 frame. Readers recognize
the wrapping from the leading magic bytes, so callers never need to know how
a file was stored.

This is unrelated to the "compressed" ray file variants, which are different
record layouts inside the file.
*/
package compress

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/DataDog/zstd"
	"github.com/pierrec/lz4/v4"
)

// Method is a flag representing how a file is wrapped.
type Method uint32

const (
	None Method = iota
	Zstd
	LZ4
)

var (
	// ZstdMagic and LZ4Magic are the first four bytes of a zstd and lz4
	// frame, respectively.
	ZstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	LZ4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

const (
	magicSize = 4
	// ZstdLevel is the compression level used when writing zstd frames.
	ZstdLevel = zstd.DefaultCompression
)

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	}
	return fmt.Sprintf("Method(%d)", uint32(m))
}

// ParseMethod converts the name of a method to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "none", "":
		return None, nil
	case "zstd":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	}
	return None, fmt.Errorf("'%s' is not a recognized compression method. "+
		"The only valid methods are 'none', 'zstd', and 'lz4'.", s)
}

// Detect returns the method used to wrap a file starting with the bytes b.
// Anything that isn't a known frame is reported as None.
func Detect(b []byte) Method {
	if len(b) < magicSize {
		return None
	}
	switch {
	case bytes.Equal(b[:magicSize], ZstdMagic):
		return Zstd
	case bytes.Equal(b[:magicSize], LZ4Magic):
		return LZ4
	}
	return None
}

// NewReader returns a reader which produces the unwrapped contents of rd,
// along with the method that rd was wrapped with. The returned reader must
// be closed; closing it does not close rd.
func NewReader(rd io.Reader) (io.ReadCloser, Method, error) {
	br := bufio.NewReader(rd)
	magic, err := br.Peek(magicSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, None, err
	}

	method := Detect(magic)
	switch method {
	case Zstd:
		return zstd.NewReader(br), method, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(br)), method, nil
	default:
		return io.NopCloser(br), method, nil
	}
}

// NewWriter returns a writer which wraps everything written to it with the
// given method before passing it on to wr. The returned writer must be closed
// to flush the final frame; closing it does not close wr.
func NewWriter(wr io.Writer, method Method) (io.WriteCloser, error) {
	switch method {
	case None:
		return nopWriteCloser{wr}, nil
	case Zstd:
		return zstd.NewWriterLevel(wr, ZstdLevel), nil
	case LZ4:
		return lz4.NewWriter(wr), nil
	}
	return nil, fmt.Errorf("Internal error: the method flag %d isn't "+
		"recognized by compress.NewWriter.", uint32(method))
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

package rayio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// HeaderSize is the number of bytes in a ray file header.
	HeaderSize = 8
	// typeCodeScale separates the variant type code from the version in the
	// first header integer: header = version + typeCode*typeCodeScale.
	typeCodeScale = 10000
)

// Variant is one of the on-disk layouts of a ray file.
type Variant int

const (
	UncompressedFullData Variant = iota
	CompressedBasicData
	CompressedFullData
)

// Variants lists every recognized variant.
var Variants = []Variant{
	UncompressedFullData, CompressedBasicData, CompressedFullData,
}

func (v Variant) String() string {
	switch v {
	case UncompressedFullData:
		return "uncompressed-full-data"
	case CompressedBasicData:
		return "compressed-basic-data"
	case CompressedFullData:
		return "compressed-full-data"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// TypeCode returns the code stored in a file header for this variant. The
// basic-data code has never been confirmed against a reference file; 1 is
// what this package writes into its own test streams.
func (v Variant) TypeCode() int32 {
	switch v {
	case UncompressedFullData:
		return 0
	case CompressedBasicData:
		return 1
	case CompressedFullData:
		return 2
	}
	panic(fmt.Sprintf("Internal error: no type code for %s.", v))
}

// FloatWidth returns the width in bytes of the floating point fields of a
// segment record.
func (v Variant) FloatWidth() int {
	if v == UncompressedFullData {
		return 8
	}
	return 4
}

// variantFromTypeCode maps a header type code to a variant. 0 and 2 are the
// only codes known for certain; everything else is read as basic data.
func variantFromTypeCode(code int32) Variant {
	switch code {
	case 0:
		return UncompressedFullData
	case 2:
		return CompressedFullData
	default:
		return CompressedBasicData
	}
}

// ParseVariant converts a variant name (or its short form: ufd, cbd, cfd) to
// a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "ufd", UncompressedFullData.String():
		return UncompressedFullData, nil
	case "cbd", CompressedBasicData.String():
		return CompressedBasicData, nil
	case "cfd", CompressedFullData.String():
		return CompressedFullData, nil
	}
	return 0, fmt.Errorf("'%s' is not a ray file variant. Valid variants "+
		"are 'ufd', 'cbd', and 'cfd'.", s)
}

// Header is the decoded form of the first header integer.
type Header struct {
	Variant Variant
	Version int32
}

// Validate returns an error if the header can't be encoded.
func (hd Header) Validate() error {
	if hd.Version < 0 || hd.Version >= typeCodeScale {
		return fmt.Errorf("ray file version %d is out of range: it must be "+
			"in [0, %d) so that it doesn't overlap the variant type code.",
			hd.Version, typeCodeScale)
	}
	switch hd.Variant {
	case UncompressedFullData, CompressedBasicData, CompressedFullData:
	default:
		return fmt.Errorf("%s is not a recognized ray file variant.",
			hd.Variant)
	}
	return nil
}

func (hd Header) raw() int32 {
	return hd.Version + hd.Variant.TypeCode()*typeCodeScale
}

// headerFromRaw splits the first header integer with floored division, so a
// negative value never decodes to a negative version.
func headerFromRaw(h int32) Header {
	code, version := h/typeCodeScale, h%typeCodeScale
	if version < 0 {
		code, version = code-1, version+typeCodeScale
	}
	return Header{Variant: variantFromTypeCode(code), Version: version}
}

// DecodeHeader reads the 8-byte file header from rd and returns the header
// and the declared maximum number of segments per ray.
func DecodeHeader(
	rd io.Reader, order binary.ByteOrder,
) (hd Header, maxSegments int32, err error) {
	b := make([]byte, HeaderSize)
	if _, err := io.ReadFull(rd, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, 0, ErrTruncatedHeader
		}
		return Header{}, 0, ioError("reading ray file header", err)
	}

	hd = headerFromRaw(int32(order.Uint32(b[0:4])))
	maxSegments = int32(order.Uint32(b[4:8]))
	return hd, maxSegments, nil
}

// EncodeHeader writes the 8-byte file header to wr.
func EncodeHeader(
	wr io.Writer, order binary.ByteOrder, hd Header, maxSegments int32,
) error {
	if err := hd.Validate(); err != nil {
		return err
	}

	b := make([]byte, HeaderSize)
	order.PutUint32(b[0:4], uint32(hd.raw()))
	order.PutUint32(b[4:8], uint32(maxSegments))
	_, err := wr.Write(b)
	return ioError("writing ray file header", err)
}

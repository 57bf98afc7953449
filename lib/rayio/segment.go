package rayio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Segment is the state of a ray at one optical interaction. Fields are
// declared in on-disk order. Floating point fields are always held as
// float64, even for variants which store them with 4 bytes.
type Segment struct {
	Status uint32 // flag bitmask

	Level     int32 // branch depth
	HitObject int32
	HitFace   int32
	Unused    int32
	InObject  int32
	Parent    int32 // index of the segment this one came from
	Storage   int32
	XYBin     int32
	LMBin     int32

	Index         float64 // refractive index
	StartingPhase float64

	X, Y, Z    float64 // position
	L, M, N    float64 // direction cosines
	NX, NY, NZ float64 // surface normal

	PathTo    float64 // optical path length to this segment
	Intensity float64
	PhaseOf   float64
	PhaseAt   float64

	// Complex electric field components, split into real and imaginary parts.
	Exr, Exi float64
	Eyr, Eyi float64
	Ezr, Ezi float64
}

// signedFields returns pointers to the int32 fields, FieldLevel through
// FieldLMBin, in order.
func (s *Segment) signedFields() [NumIntFields - 1]*int32 {
	return [NumIntFields - 1]*int32{
		&s.Level, &s.HitObject, &s.HitFace, &s.Unused, &s.InObject,
		&s.Parent, &s.Storage, &s.XYBin, &s.LMBin,
	}
}

// floatFields returns pointers to the floating point fields, in order.
func (s *Segment) floatFields() [NumFloatFields]*float64 {
	return [NumFloatFields]*float64{
		&s.Index, &s.StartingPhase,
		&s.X, &s.Y, &s.Z, &s.L, &s.M, &s.N, &s.NX, &s.NY, &s.NZ,
		&s.PathTo, &s.Intensity, &s.PhaseOf, &s.PhaseAt,
		&s.Exr, &s.Exi, &s.Eyr, &s.Eyi, &s.Ezr, &s.Ezi,
	}
}

// Value returns the value of a field as a float64. Integer fields are
// converted exactly.
func (s *Segment) Value(f Field) float64 {
	switch {
	case f == FieldStatus:
		return float64(s.Status)
	case f > FieldStatus && f < FieldIndex:
		return float64(*s.signedFields()[f-FieldLevel])
	case f >= FieldIndex && f < NumFields:
		return *s.floatFields()[f-FieldIndex]
	}
	panic(fmt.Sprintf("Internal error: %s is not a segment field.", f))
}

// SetValue sets a field from a float64. Integer fields are truncated.
func (s *Segment) SetValue(f Field, x float64) {
	switch {
	case f == FieldStatus:
		s.Status = uint32(x)
	case f > FieldStatus && f < FieldIndex:
		*s.signedFields()[f-FieldLevel] = int32(x)
	case f >= FieldIndex && f < NumFields:
		*s.floatFields()[f-FieldIndex] = x
	default:
		panic(fmt.Sprintf("Internal error: %s is not a segment field.", f))
	}
}

// SegmentCodec converts between Segments and the fixed-width records of one
// variant. DecodeSegment and EncodeSegment expect b to hold exactly
// RecordSize() bytes.
type SegmentCodec interface {
	Variant() Variant
	FieldWidth() int
	RecordSize() int
	DecodeSegment(b []byte, order binary.ByteOrder, s *Segment)
	EncodeSegment(b []byte, order binary.ByteOrder, s *Segment)
}

// Type checking
var (
	_ SegmentCodec = float64Codec{}
	_ SegmentCodec = float32Codec{}
)

// CodecFor returns the segment codec for a variant. The 4-byte codec
// describes the nominal layout of the compressed variants; the policy keeps
// the reader and writer from using it.
func CodecFor(v Variant) SegmentCodec {
	if v == UncompressedFullData {
		return float64Codec{}
	}
	return float32Codec{v}
}

// float64Codec is the uncompressed full-data layout.
type float64Codec struct{}

func (float64Codec) Variant() Variant { return UncompressedFullData }
func (float64Codec) FieldWidth() int  { return 8 }
func (float64Codec) RecordSize() int  { return RecordSize(UncompressedFullData) }

func (float64Codec) DecodeSegment(b []byte, order binary.ByteOrder, s *Segment) {
	off := decodeInts(b, order, s)
	for _, p := range s.floatFields() {
		*p = math.Float64frombits(order.Uint64(b[off:]))
		off += 8
	}
}

func (float64Codec) EncodeSegment(b []byte, order binary.ByteOrder, s *Segment) {
	off := encodeInts(b, order, s)
	for _, p := range s.floatFields() {
		order.PutUint64(b[off:], math.Float64bits(*p))
		off += 8
	}
}

// float32Codec is the 4-byte floating point layout.
type float32Codec struct {
	v Variant
}

func (c float32Codec) Variant() Variant { return c.v }
func (float32Codec) FieldWidth() int    { return 4 }
func (c float32Codec) RecordSize() int  { return RecordSize(c.v) }

func (float32Codec) DecodeSegment(b []byte, order binary.ByteOrder, s *Segment) {
	off := decodeInts(b, order, s)
	for _, p := range s.floatFields() {
		*p = float64(math.Float32frombits(order.Uint32(b[off:])))
		off += 4
	}
}

func (float32Codec) EncodeSegment(b []byte, order binary.ByteOrder, s *Segment) {
	off := encodeInts(b, order, s)
	for _, p := range s.floatFields() {
		order.PutUint32(b[off:], math.Float32bits(float32(*p)))
		off += 4
	}
}

// decodeInts decodes the integer block shared by every variant and returns
// the offset of the first floating point field.
func decodeInts(b []byte, order binary.ByteOrder, s *Segment) int {
	s.Status = order.Uint32(b[0:])
	off := intFieldWidth
	for _, p := range s.signedFields() {
		*p = int32(order.Uint32(b[off:]))
		off += intFieldWidth
	}
	return off
}

func encodeInts(b []byte, order binary.ByteOrder, s *Segment) int {
	order.PutUint32(b[0:], s.Status)
	off := intFieldWidth
	for _, p := range s.signedFields() {
		order.PutUint32(b[off:], uint32(*p))
		off += intFieldWidth
	}
	return off
}

// ReadSegment reads one record from rd into s. buf is scratch space and is
// resized if it's too small; the (possibly new) buffer is returned so it can
// be reused. Any short read, including one which reads nothing, is reported
// as ErrTruncatedRecord.
func ReadSegment(
	rd io.Reader, codec SegmentCodec, order binary.ByteOrder,
	s *Segment, buf []byte,
) ([]byte, error) {
	buf = resizeBytes(buf, codec.RecordSize())
	if _, err := io.ReadFull(rd, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return buf, ErrTruncatedRecord
		}
		return buf, ioError("reading segment record", err)
	}
	codec.DecodeSegment(buf, order, s)
	return buf, nil
}

// WriteSegment writes s to wr as one record. buf is used the same way as in
// ReadSegment.
func WriteSegment(
	wr io.Writer, codec SegmentCodec, order binary.ByteOrder,
	s *Segment, buf []byte,
) ([]byte, error) {
	buf = resizeBytes(buf, codec.RecordSize())
	codec.EncodeSegment(buf, order, s)
	_, err := wr.Write(buf)
	return buf, ioError("writing segment record", err)
}

// resizeBytes returns a slice of length n, reusing b's storage when it can.
func resizeBytes(b []byte, n int) []byte {
	if cap(b) >= n {
		return b[:n]
	}
	return make([]byte, n)
}

package rayio

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedHeader is returned when a stream ends before the 8-byte
	// file header has been read.
	ErrTruncatedHeader = errors.New("ray file header is truncated")
	// ErrTruncatedRecord is returned when a stream ends in the middle of a
	// segment count or segment record. Running out of bytes exactly before a
	// segment count is the normal end of a file and is not an error.
	ErrTruncatedRecord = errors.New("ray file ends in the middle of a record")
	// ErrUnsupportedVariant is matched by every *UnsupportedVariantError.
	ErrUnsupportedVariant = errors.New("unsupported ray file variant")
)

// Op is the operation that was attempted on a variant.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// UnsupportedVariantError is returned when a file's header names, or a caller
// requests, a variant which can't yet be used for the attempted operation.
type UnsupportedVariantError struct {
	Variant Variant
	Op      Op
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("cannot %s %s ray files: this variant is recognized "+
		"but not implemented", e.Op, e.Variant)
}

func (e *UnsupportedVariantError) Is(target error) bool {
	return target == ErrUnsupportedVariant
}

// IOError wraps a failure of the underlying byte source or sink. The original
// error is available through errors.Unwrap.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *IOError) Unwrap() error { return e.Err }

func ioError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}

package rayio

/* policy.go declares which variants can be read and written today. */

type capability struct {
	read, write bool
}

// policy is the single place read/write support is decided. The compressed
// variants are recognized in headers but their record layouts have never been
// checked against a reference file.
var policy = map[Variant]capability{
	UncompressedFullData: {read: true, write: true},
	CompressedBasicData:  {read: false, write: false},
	CompressedFullData:   {read: false, write: false},
}

// CanRead returns true if files of variant v can be decoded.
func CanRead(v Variant) bool { return policy[v].read }

// CanWrite returns true if files of variant v can be encoded.
func CanWrite(v Variant) bool { return policy[v].write }

// CheckRead returns an *UnsupportedVariantError if v can't be read.
func CheckRead(v Variant) error {
	if !CanRead(v) {
		return &UnsupportedVariantError{Variant: v, Op: OpRead}
	}
	return nil
}

// CheckWrite returns an *UnsupportedVariantError if v can't be written.
func CheckWrite(v Variant) error {
	if !CanWrite(v) {
		return &UnsupportedVariantError{Variant: v, Op: OpWrite}
	}
	return nil
}

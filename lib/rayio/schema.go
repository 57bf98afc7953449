package rayio

/* schema.go contains the fixed, ordered field table of a segment record. */

import (
	"fmt"
)

// Kind is the numeric kind a field is stored as on disk.
type Kind int

const (
	KindUint32 Kind = iota
	KindInt32
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindUint32:
		return "u32"
	case KindInt32:
		return "i32"
	case KindFloat:
		return "float"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field names one field of a segment record. The constants are declared in
// on-disk order, so iterating from 0 to NumFields walks a record front to
// back.
type Field int

const (
	FieldStatus Field = iota
	FieldLevel
	FieldHitObject
	FieldHitFace
	FieldUnused
	FieldInObject
	FieldParent
	FieldStorage
	FieldXYBin
	FieldLMBin

	FieldIndex
	FieldStartingPhase
	FieldX
	FieldY
	FieldZ
	FieldL
	FieldM
	FieldN
	FieldNX
	FieldNY
	FieldNZ
	FieldPathTo
	FieldIntensity
	FieldPhaseOf
	FieldPhaseAt
	FieldExr
	FieldExi
	FieldEyr
	FieldEyi
	FieldEzr
	FieldEzi

	NumFields
)

const (
	// NumIntFields is the number of 4-byte integer fields at the front of
	// every record, regardless of variant.
	NumIntFields = int(FieldIndex)
	// NumFloatFields is the number of floating point fields which follow
	// them.
	NumFloatFields = int(NumFields) - NumIntFields
	intFieldWidth  = 4
)

var fieldNames = [NumFields]string{
	"status", "level", "hit_object", "hit_face", "unused", "in_object",
	"parent", "storage", "xybin", "lmbin",
	"index", "starting_phase", "x", "y", "z", "l", "m", "n",
	"nx", "ny", "nz", "path_to", "intensity", "phase_of", "phase_at",
	"exr", "exi", "eyr", "eyi", "ezr", "ezi",
}

// Fields returns every field in on-disk order.
func Fields() []Field {
	out := make([]Field, NumFields)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// Name returns the field's name as used in ray files and on the command line.
func (f Field) Name() string {
	if f < 0 || f >= NumFields {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

func (f Field) String() string { return f.Name() }

// Kind returns the on-disk kind of the field.
func (f Field) Kind() Kind {
	switch {
	case f == FieldStatus:
		return KindUint32
	case f < FieldIndex:
		return KindInt32
	default:
		return KindFloat
	}
}

// Width returns the number of bytes the field takes up in a record of the
// given variant.
func (f Field) Width(v Variant) int {
	if f.Kind() == KindFloat {
		return v.FloatWidth()
	}
	return intFieldWidth
}

// Offset returns the byte offset of the field inside a record of the given
// variant.
func (f Field) Offset(v Variant) int {
	if f < FieldIndex {
		return int(f) * intFieldWidth
	}
	return NumIntFields*intFieldWidth + int(f-FieldIndex)*v.FloatWidth()
}

// FieldByName looks up a field by its name.
func FieldByName(name string) (Field, error) {
	for i := range fieldNames {
		if fieldNames[i] == name {
			return Field(i), nil
		}
	}
	return -1, fmt.Errorf("'%s' is not a ray segment field. The valid "+
		"fields are %v.", name, fieldNames)
}

// RecordSize returns the number of bytes in one segment record of the given
// variant.
func RecordSize(v Variant) int {
	return NumIntFields*intFieldWidth + NumFloatFields*v.FloatWidth()
}

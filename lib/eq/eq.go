/*package eq is a simple package for telling whether two ray files, rays,
segments, or arrays are equal to one another.*/
package eq

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/zrd/lib/rayio"
)

// Segment returns true if two segments are bitwise identical. Unlike ==, this
// treats two NaNs with the same bits as equal and 0 and -0 as different, which
// is what matters when checking that a file survived a round trip.
func Segment(x, y *rayio.Segment) bool {
	for f := rayio.Field(0); f < rayio.NumFields; f++ {
		if math.Float64bits(x.Value(f)) != math.Float64bits(y.Value(f)) {
			return false
		}
	}
	return true
}

// Rays returns true if two rays have the same segments in the same order.
func Rays(x, y rayio.Ray) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Segment(&x[i], &y[i]) {
			return false
		}
	}
	return true
}

// RayFiles returns true if two ray files have the same header, declared
// maximum segment count, and rays.
func RayFiles(x, y *rayio.RayFile) bool {
	return Diff(x, y) == ""
}

// Diff describes the first difference between two ray files. It returns ""
// if they are the same.
func Diff(x, y *rayio.RayFile) string {
	switch {
	case x == nil && y == nil:
		return ""
	case x == nil || y == nil:
		return "one ray file is nil"
	case x.Header != y.Header:
		return fmt.Sprintf("headers differ: %+v vs %+v", x.Header, y.Header)
	case x.MaxSegmentsPerRay != y.MaxSegmentsPerRay:
		return fmt.Sprintf("max segments per ray differ: %d vs %d",
			x.MaxSegmentsPerRay, y.MaxSegmentsPerRay)
	case len(x.Rays) != len(y.Rays):
		return fmt.Sprintf("ray counts differ: %d vs %d",
			len(x.Rays), len(y.Rays))
	}

	for i := range x.Rays {
		rx, ry := x.Rays[i], y.Rays[i]
		if len(rx) != len(ry) {
			return fmt.Sprintf("ray %d: segment counts differ: %d vs %d",
				i, len(rx), len(ry))
		}
		for j := range rx {
			for f := rayio.Field(0); f < rayio.NumFields; f++ {
				vx, vy := rx[j].Value(f), ry[j].Value(f)
				if math.Float64bits(vx) != math.Float64bits(vy) {
					return fmt.Sprintf("ray %d, segment %d: %s differs: "+
						"%g vs %g", i, j, f, vx, vy)
				}
			}
		}
	}
	return ""
}

// Bytes returns true if two []byte arrays are the same and false otherwise.
func Bytes(x, y []byte) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Ints returns true if two []int arrays are the same and false otherwise.
func Ints(x, y []int) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Float64sEps returns true if the two []float64 arrays are within eps of one
// another and false otherwise.
func Float64sEps(x, y []float64, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i]+eps < y[i] || x[i]-eps > y[i] {
			return false
		}
	}
	return true
}

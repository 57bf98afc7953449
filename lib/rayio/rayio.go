/*package rayio reads and writes ZRD ray files: the binary files an optical
ray tracer uses to store every segment of every traced ray.

A file is a two-integer header followed by rays until the end of the stream.
Each ray is a 32-bit segment count followed by that many fixed-width segment
records. Three on-disk variants exist, but only the uncompressed full-data
variant can currently be read or written (see policy.go).
*/
package rayio

// Ray is one traced ray together with all of its split and scattered
// descendants, stored as successive segments. A Ray with no segments is legal.
type Ray []Segment

// RayFile is the full contents of a ray file.
type RayFile struct {
	Header Header
	// MaxSegmentsPerRay is the second header integer. It is advisory: readers
	// don't use it to size anything, and it is written back verbatim.
	MaxSegmentsPerRay int32
	Rays              []Ray
}

// NewRayFile creates an empty RayFile with the given variant and version.
func NewRayFile(v Variant, version int32) *RayFile {
	return &RayFile{Header: Header{Variant: v, Version: version}}
}

// AddRay appends a ray to the file and raises MaxSegmentsPerRay if the new
// ray is longer than any previous one.
func (f *RayFile) AddRay(ray Ray) {
	f.Rays = append(f.Rays, ray)
	if int64(len(ray)) > int64(f.MaxSegmentsPerRay) {
		f.MaxSegmentsPerRay = clampInt32(len(ray))
	}
}

// UpdateMaxSegments sets MaxSegmentsPerRay to the length of the longest ray.
func (f *RayFile) UpdateMaxSegments() {
	max := 0
	for i := range f.Rays {
		if len(f.Rays[i]) > max {
			max = len(f.Rays[i])
		}
	}
	f.MaxSegmentsPerRay = clampInt32(max)
}

// Segments returns the total number of segments across all rays.
func (f *RayFile) Segments() int {
	n := 0
	for i := range f.Rays {
		n += len(f.Rays[i])
	}
	return n
}

func clampInt32(n int) int32 {
	if int64(n) > int64(maxInt32) {
		return maxInt32
	}
	return int32(n)
}

const maxInt32 = 1<<31 - 1

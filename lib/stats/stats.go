/*package stats computes summary statistics of the beam stored in a ray file:
how much light there is, where it lands, how large and elongated the spot is,
and whether the stored direction cosines are still unit length.
*/
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/zrd/lib/rayio"
)

// Selection decides which segments are included in a Beam.
type Selection struct {
	// FinalOnly uses only the last segment of each ray, i.e. where the ray
	// ended up. Otherwise every segment is used.
	FinalOnly bool
	// If FilterObject is true, only segments whose HitObject is Object are
	// used.
	FilterObject bool
	Object       int32
}

// Beam is the set of statistics computed by Compute. Positions are weighted
// by segment intensity.
type Beam struct {
	Rays      int // rays contributing at least one segment
	EmptyRays int // rays with no segments at all
	Segments  int

	TotalIntensity float64
	// NegativeIntensity counts segments with negative intensity. They are
	// given zero weight.
	NegativeIntensity int

	Centroid      [3]float64
	Covariance    [3][3]float64
	MeanDirection [3]float64

	// SpotRMS holds the RMS extent of the spot along each principal axis,
	// largest first, and Axes holds the matching unit vectors.
	SpotRMS [3]float64
	Axes    [3][3]float64

	// MaxCosineError and RMSCosineError measure |sqrt(l^2 + m^2 + n^2) - 1|.
	MaxCosineError float64
	RMSCosineError float64

	// HitObjects counts the selected segments by the object they hit.
	HitObjects map[int32]int
}

// Compute calculates the statistics of the segments in f chosen by sel. An
// error is returned if no segments are selected.
func Compute(f *rayio.RayFile, sel Selection) (*Beam, error) {
	b := &Beam{HitObjects: map[int32]int{}}
	segs := selectSegments(f, sel, b)
	b.Segments = len(segs)
	if b.Segments == 0 {
		return nil, fmt.Errorf("No segments match the selection, so no " +
			"statistics can be computed.")
	}

	x := mat.NewDense(len(segs), 3, nil)
	dir := [3][]float64{
		make([]float64, len(segs)),
		make([]float64, len(segs)),
		make([]float64, len(segs)),
	}
	w := make([]float64, len(segs))
	cosErr := make([]float64, len(segs))
	lmn := make([]float64, 3)

	for i, s := range segs {
		x.Set(i, 0, s.X)
		x.Set(i, 1, s.Y)
		x.Set(i, 2, s.Z)
		dir[0][i], dir[1][i], dir[2][i] = s.L, s.M, s.N

		if s.Intensity < 0 {
			b.NegativeIntensity++
		} else {
			w[i] = s.Intensity
		}

		lmn[0], lmn[1], lmn[2] = s.L, s.M, s.N
		cosErr[i] = math.Abs(floats.Norm(lmn, 2) - 1)
	}

	b.TotalIntensity = floats.Sum(w)
	weights := normalizeWeights(w, b.TotalIntensity)

	for dim := 0; dim < 3; dim++ {
		b.Centroid[dim] = stat.Mean(mat.Col(nil, dim, x), weights)
		b.MeanDirection[dim] = stat.Mean(dir[dim], weights)
	}

	b.MaxCosineError = floats.Max(cosErr)
	b.RMSCosineError = floats.Norm(cosErr, 2) / math.Sqrt(float64(len(cosErr)))

	if len(segs) >= 2 {
		if err := b.spot(x, weights); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// selectSegments returns the segments chosen by sel and fills in the ray
// counts and hit histogram of b.
func selectSegments(
	f *rayio.RayFile, sel Selection, b *Beam,
) []*rayio.Segment {
	segs := []*rayio.Segment{}
	for _, ray := range f.Rays {
		if len(ray) == 0 {
			b.EmptyRays++
			continue
		}

		start := 0
		if sel.FinalOnly {
			start = len(ray) - 1
		}

		used := false
		for j := start; j < len(ray); j++ {
			s := &ray[j]
			if sel.FilterObject && s.HitObject != sel.Object {
				continue
			}
			segs = append(segs, s)
			b.HitObjects[s.HitObject]++
			used = true
		}
		if used {
			b.Rays++
		}
	}
	return segs
}

// normalizeWeights rescales intensities so that they sum to the number of
// segments. The covariance then has the same normalization as an unweighted
// sample covariance. If there is no light at all, nil (equal weights) is
// returned.
func normalizeWeights(w []float64, total float64) []float64 {
	if total <= 0 {
		return nil
	}
	out := make([]float64, len(w))
	floats.ScaleTo(out, float64(len(w))/total, w)
	return out
}

// spot computes the position covariance and its principal axes.
func (b *Beam) spot(x *mat.Dense, weights []float64) error {
	cov := &mat.SymDense{}
	stat.CovarianceMatrix(cov, x, weights)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b.Covariance[i][j] = cov.At(i, j)
		}
	}

	eig := &mat.EigenSym{}
	if ok := eig.Factorize(cov, true); !ok {
		return fmt.Errorf("Internal error: eigendecomposition of the spot "+
			"covariance matrix %v failed.", b.Covariance)
	}
	vals := eig.Values(nil)
	vecs := &mat.Dense{}
	eig.VectorsTo(vecs)

	order := []int{0, 1, 2}
	sort.Slice(order, func(i, j int) bool {
		return vals[order[i]] > vals[order[j]]
	})
	for k, idx := range order {
		b.SpotRMS[k] = math.Sqrt(math.Max(vals[idx], 0))
		for dim := 0; dim < 3; dim++ {
			b.Axes[k][dim] = vecs.At(dim, idx)
		}
	}
	return nil
}

// AxisRatio returns the ratio of the second-largest to the largest spot RMS.
// A round spot in a plane has a ratio of 1. It returns -1 if the spot has no
// extent.
func (b *Beam) AxisRatio() float64 {
	if b.SpotRMS[0] == 0 {
		return -1
	}
	return b.SpotRMS[1] / b.SpotRMS[0]
}

// Objects returns the objects in HitObjects in increasing order.
func (b *Beam) Objects() []int32 {
	out := make([]int32, 0, len(b.HitObjects))
	for obj := range b.HitObjects {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

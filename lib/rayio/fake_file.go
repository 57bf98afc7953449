package rayio

import (
	"math"
)

// Status flags set on synthetic segments. Real tracers use many more bits;
// these are only here so that generated files don't have a constant status
// column.
const (
	FakeStatusTerminated uint32 = 1 << 0
	FakeStatusReflected  uint32 = 1 << 1
	FakeStatusTransmit   uint32 = 1 << 2
)

// FakeVersion is the version written into synthetic file headers.
const FakeVersion = 2002

// FakeRayFile creates a synthetic uncompressed full-data ray file with nRays
// rays. Each ray has between 0 and maxSegments segments (inclusive), so empty
// rays appear whenever maxSegments is small. Rays start in a unit disk at
// z = 0 travelling roughly along +z and hit a stack of flat surfaces at
// z = 1, 2, 3, ... . Direction cosines are unit length, intensity decays at
// every surface, and Parent always points at the previous segment. The same
// seed always gives the same file.
func FakeRayFile(nRays, maxSegments int, seed uint64) *RayFile {
	f := NewRayFile(UncompressedFullData, FakeVersion)
	rng := NewRNG(seed)
	for i := 0; i < nRays; i++ {
		f.AddRay(fakeRay(rng, rng.Intn(maxSegments+1)))
	}
	if f.MaxSegmentsPerRay < int32(maxSegments) {
		f.MaxSegmentsPerRay = clampInt32(maxSegments)
	}
	return f
}

func fakeRay(rng *RNG, n int) Ray {
	ray := make(Ray, n)
	if n == 0 {
		return ray
	}

	r, theta := math.Sqrt(rng.Uniform()), 2*math.Pi*rng.Uniform()
	x, y, z := r*math.Cos(theta), r*math.Sin(theta), 0.0
	l, m := rng.Range(-0.1, 0.1), rng.Range(-0.1, 0.1)
	nz := math.Sqrt(1 - l*l - m*m)
	intensity, path := 1.0, 0.0
	phase := rng.Range(0, 2*math.Pi)

	for j := range ray {
		s := &ray[j]
		if j > 0 {
			dz := 1.0
			t := dz / nz
			x, y, z = x+l*t, y+m*t, z+dz
			path += t
			intensity *= rng.Range(0.8, 1.0)
			s.Parent = int32(j - 1)
			s.HitObject = int32(j)
			s.HitFace = int32(rng.Intn(2))
			s.NX, s.NY, s.NZ = 0, 0, -1
			if rng.Uniform() < 0.2 {
				s.Status |= FakeStatusReflected
			} else {
				s.Status |= FakeStatusTransmit
			}
		}
		if j == len(ray)-1 {
			s.Status |= FakeStatusTerminated
		}

		s.Level = int32(j)
		s.InObject = int32(j)
		s.XYBin = int32(rng.Intn(64))
		s.LMBin = int32(rng.Intn(64))

		s.Index = 1.0
		if j%2 == 1 {
			s.Index = 1.5
		}
		s.StartingPhase = phase
		s.X, s.Y, s.Z = x, y, z
		s.L, s.M, s.N = l, m, nz
		s.PathTo = path
		s.Intensity = intensity
		s.PhaseOf = math.Mod(phase+2*math.Pi*path, 2*math.Pi)
		s.PhaseAt = s.PhaseOf

		amp := math.Sqrt(intensity)
		s.Exr, s.Exi = amp*math.Cos(s.PhaseAt), amp*math.Sin(s.PhaseAt)
		s.Eyr, s.Eyi = 0, 0
		s.Ezr, s.Ezi = 0, 0
	}

	return ray
}

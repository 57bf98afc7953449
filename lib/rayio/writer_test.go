package rayio_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/zrd/lib/compress"
	"github.com/phil-mansfield/zrd/lib/rayio"
)

func TestWriteUnsupportedVariant(t *testing.T) {
	f := rayio.FakeRayFile(10, 3, 1)
	for _, v := range []rayio.Variant{
		rayio.CompressedBasicData, rayio.CompressedFullData,
	} {
		buf := &bytes.Buffer{}
		err := rayio.WriteRays(buf, f, v)
		require.ErrorIs(t, err, rayio.ErrUnsupportedVariant)

		var uv *rayio.UnsupportedVariantError
		require.ErrorAs(t, err, &uv)
		assert.Equal(t, v, uv.Variant)
		assert.Equal(t, rayio.OpWrite, uv.Op)
		assert.Zero(t, buf.Len(), "%s wrote bytes", v)
	}
}

func TestWriteFileUnsupportedVariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rays.zrd")
	f := rayio.FakeRayFile(2, 2, 1)

	err := rayio.WriteFile(path, f, rayio.CompressedFullData, compress.Zstd)
	require.ErrorIs(t, err, rayio.ErrUnsupportedVariant)
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteInvalidVersion(t *testing.T) {
	f := rayio.NewRayFile(rayio.UncompressedFullData, 10000)
	f.AddRay(rayio.Ray{{}})

	buf := &bytes.Buffer{}
	assert.Error(t, rayio.WriteRays(buf, f, rayio.UncompressedFullData))
	assert.Zero(t, buf.Len())
}

// The header's variant is ignored in favor of the requested one.
func TestWriteVariantArgument(t *testing.T) {
	f := rayio.NewRayFile(rayio.CompressedBasicData, 7)
	f.AddRay(rayio.Ray{{Status: 3}})

	buf := &bytes.Buffer{}
	require.NoError(t, rayio.WriteRays(buf, f, rayio.UncompressedFullData,
		rayio.WithWriteByteOrder(order)))
	assert.Equal(t, rayio.HeaderSize+4+208, buf.Len())
	assert.Equal(t, uint32(7), order.Uint32(buf.Bytes()))
}

type failingWriter struct {
	n   int // bytes accepted before failing
	err error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		n := w.n
		w.n = 0
		return n, w.err
	}
	w.n -= len(p)
	return len(p), nil
}

func TestWriteIOError(t *testing.T) {
	f := rayio.FakeRayFile(20, 4, 2)
	require.Greater(t, f.Segments(), 3)
	boom := errors.New("disk full")

	for _, n := range []int{0, 4, rayio.HeaderSize, rayio.HeaderSize + 4, 500} {
		err := rayio.WriteRays(&failingWriter{n, boom}, f,
			rayio.UncompressedFullData)
		require.ErrorIs(t, err, boom, "fail after %d bytes", n)
		var ioErr *rayio.IOError
		assert.ErrorAs(t, err, &ioErr)
	}
}

func TestMaxSegmentsPerRay(t *testing.T) {
	f := rayio.NewRayFile(rayio.UncompressedFullData, 1)
	assert.Equal(t, int32(0), f.MaxSegmentsPerRay)

	f.AddRay(make(rayio.Ray, 3))
	f.AddRay(make(rayio.Ray, 1))
	assert.Equal(t, int32(3), f.MaxSegmentsPerRay)
	assert.Equal(t, 4, f.Segments())

	// The declared value is written verbatim, even if it's stale.
	f.MaxSegmentsPerRay = 50
	buf := &bytes.Buffer{}
	require.NoError(t, rayio.WriteRays(buf, f, rayio.UncompressedFullData,
		rayio.WithWriteByteOrder(order)))
	assert.Equal(t, uint32(50), order.Uint32(buf.Bytes()[4:]))

	f.UpdateMaxSegments()
	assert.Equal(t, int32(3), f.MaxSegmentsPerRay)
}

func TestPolicy(t *testing.T) {
	assert.True(t, rayio.CanRead(rayio.UncompressedFullData))
	assert.True(t, rayio.CanWrite(rayio.UncompressedFullData))
	assert.NoError(t, rayio.CheckRead(rayio.UncompressedFullData))
	assert.NoError(t, rayio.CheckWrite(rayio.UncompressedFullData))

	for _, v := range []rayio.Variant{
		rayio.CompressedBasicData, rayio.CompressedFullData, rayio.Variant(9),
	} {
		assert.False(t, rayio.CanRead(v))
		assert.False(t, rayio.CanWrite(v))
		assert.ErrorIs(t, rayio.CheckRead(v), rayio.ErrUnsupportedVariant)
		assert.ErrorIs(t, rayio.CheckWrite(v), rayio.ErrUnsupportedVariant)
	}
}

func TestFakeRayFile(t *testing.T) {
	f := rayio.FakeRayFile(200, 6, 42)
	g := rayio.FakeRayFile(200, 6, 42)
	assert.Equal(t, f, g)

	require.Len(t, f.Rays, 200)
	assert.Equal(t, int32(6), f.MaxSegmentsPerRay)

	empty := 0
	for _, ray := range f.Rays {
		assert.LessOrEqual(t, len(ray), 6)
		if len(ray) == 0 {
			empty++
		}
		for j, s := range ray {
			assert.InDelta(t, 1.0, s.L*s.L+s.M*s.M+s.N*s.N, 1e-12)
			assert.GreaterOrEqual(t, s.Intensity, 0.0)
			assert.LessOrEqual(t, s.Intensity, 1.0)
			if j > 0 {
				assert.Equal(t, int32(j-1), s.Parent)
			}
		}
		if len(ray) > 0 {
			last := ray[len(ray)-1]
			assert.NotZero(t, last.Status&rayio.FakeStatusTerminated)
		}
	}
	assert.NotZero(t, empty)

	h := rayio.FakeRayFile(200, 6, 43)
	assert.NotEqual(t, f, h)
}

package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/zrd/lib"
	"github.com/phil-mansfield/zrd/lib/compress"
	"github.com/phil-mansfield/zrd/lib/eq"
	"github.com/phil-mansfield/zrd/lib/rayio"
)

// run executes zrd with the given arguments and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeFake writes a synthetic ray file in native byte order.
func writeFake(t *testing.T, path string, rays, segments int) *rayio.RayFile {
	t.Helper()
	f := rayio.FakeRayFile(rays, segments, 1)
	require.NoError(t, rayio.WriteFile(path, f, rayio.UncompressedFullData,
		compress.None))
	return f
}

func TestSynthInfoConfirm(t *testing.T) {
	dir := t.TempDir()
	format := filepath.Join(dir, "rays.{%d,0..2}.zrd")

	out, err := run(t, "synth", format, "--rays", "40", "--segments", "5",
		"--seed", "3", "--threads", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 file(s).")

	paths := []string{
		filepath.Join(dir, "rays.0.zrd"),
		filepath.Join(dir, "rays.1.zrd"),
		filepath.Join(dir, "rays.2.zrd"),
	}
	for i, path := range paths {
		f, err := rayio.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, eq.Diff(rayio.FakeRayFile(40, 5, 3+uint64(i)), f))
	}

	out, err = run(t, append([]string{"info"}, paths...)...)
	require.NoError(t, err)
	for _, path := range paths {
		assert.Contains(t, out, path)
	}
	assert.Contains(t, out, rayio.UncompressedFullData.String())

	out, err = run(t, append([]string{"confirm"}, paths...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No errors detected.")
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.zrd")
	f := writeFake(t, in, 25, 4)

	for _, name := range []string{"zstd", "lz4"} {
		out := filepath.Join(dir, "out."+name)
		_, err := run(t, "convert", in, out, "--compression", name,
			"--out-byte-order", "big")
		require.NoError(t, err, name)

		raw, err := os.ReadFile(out)
		require.NoError(t, err)
		method, err := compress.ParseMethod(name)
		require.NoError(t, err)
		assert.Equal(t, method, compress.Detect(raw), name)

		g, err := rayio.ReadFile(out, rayio.WithByteOrder(binary.BigEndian))
		require.NoError(t, err, name)
		assert.Empty(t, eq.Diff(f, g), name)

		_, err = run(t, "confirm", out, "--byte-order", "big")
		require.NoError(t, err, name)
	}
}

func TestConfirmGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.zrd")
	f := rayio.NewRayFile(rayio.UncompressedFullData, 1)
	f.AddRay(make(rayio.Ray, 2))
	f.AddRay(make(rayio.Ray, 6))
	require.NoError(t, rayio.WriteFile(path, f, rayio.UncompressedFullData,
		compress.None))

	_, err := run(t, "confirm", path, "--max-segments", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxSegments")

	_, err = run(t, "confirm", path, "--max-segments", "6")
	assert.NoError(t, err)
}

func TestConfirmUnsupportedVariant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfd.zrd")
	hd := make([]byte, rayio.HeaderSize)
	order := lib.SystemByteOrder()
	order.PutUint32(hd[0:], 20000+2002)
	order.PutUint32(hd[4:], 0)
	require.NoError(t, os.WriteFile(path, hd, 0644))

	_, err := run(t, "confirm", path)
	assert.ErrorIs(t, err, rayio.ErrUnsupportedVariant)
	_, err = run(t, "info", path)
	assert.ErrorIs(t, err, rayio.ErrUnsupportedVariant)
}

func TestDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rays.zrd")
	f := rayio.NewRayFile(rayio.UncompressedFullData, 1)
	f.AddRay(rayio.Ray{{Status: 5, Level: 2, HitObject: 7, X: 1.25, Y: -3.5}})
	f.AddRay(rayio.Ray{})
	f.AddRay(rayio.Ray{{HitObject: 3, Intensity: 0.987}, {HitObject: 4}})
	require.NoError(t, rayio.WriteFile(path, f, rayio.UncompressedFullData,
		compress.None))

	out, err := run(t, "dump", path, "--fields", "hit_object,x,y,intensity")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"ray", "segment", "hit_object", "x", "y",
		"intensity"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"0", "0", "7", "1.25", "-3.5", "0"},
		strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "0", "3", "0", "0", "0.987"},
		strings.Fields(lines[2]))

	out, err = run(t, "dump", path, "--rays", "2 - 2 + 0", "--fields", "status")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"0", "0", "5"}, strings.Fields(lines[1]))

	_, err = run(t, "dump", path, "--rays", "0..3")
	assert.Error(t, err)
	_, err = run(t, "dump", path, "--fields", "wavelength")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rays.zrd")
	writeFake(t, path, 100, 4)

	out, err := run(t, "stats", path, "--final")
	require.NoError(t, err)
	assert.Contains(t, out, "total intensity")
	assert.Contains(t, out, "spot rms")

	out, err = run(t, "stats", path, "--object", "2")
	require.NoError(t, err)
	assert.Contains(t, out, " 2:")

	_, err = run(t, "stats", path, "--object", "1000")
	assert.Error(t, err)
}

func TestCheckAndExampleConfig(t *testing.T) {
	out, err := run(t, "example-config")
	require.NoError(t, err)
	assert.Equal(t, lib.ExampleConfig, out)

	path := filepath.Join(t.TempDir(), "zrd.config")
	require.NoError(t, os.WriteFile(path, []byte(out), 0644))

	out, err = run(t, "check", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No errors detected.")

	_, err = run(t, "check", "--config", path, "--max-segments", "0")
	assert.Error(t, err)
	_, err = run(t, "check", "--byte-order", "sideways")
	assert.Error(t, err)
	_, err = run(t, "check", "--config", filepath.Join(path, "missing"))
	assert.Error(t, err)
}

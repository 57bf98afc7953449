package compress

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		s      string
		method Method
		valid  bool
	}{
		{"", None, true},
		{"none", None, true},
		{"zstd", Zstd, true},
		{"lz4", LZ4, true},
		{"gzip", None, false},
		{"ZSTD", None, false},
	}

	for i := range tests {
		m, err := ParseMethod(tests[i].s)
		if !tests[i].valid {
			assert.Error(t, err, "%d) '%s'", i, tests[i].s)
			continue
		}
		require.NoError(t, err, "%d) '%s'", i, tests[i].s)
		assert.Equal(t, tests[i].method, m)
		assert.Equal(t, m, mustParse(t, m.String()))
	}
}

func mustParse(t *testing.T, s string) Method {
	m, err := ParseMethod(s)
	require.NoError(t, err)
	return m
}

func TestDetect(t *testing.T) {
	tests := []struct {
		b      []byte
		method Method
	}{
		{nil, None},
		{[]byte{0x28, 0xb5, 0x2f}, None},
		{[]byte{0x28, 0xb5, 0x2f, 0xfd}, Zstd},
		{[]byte{0x28, 0xb5, 0x2f, 0xfd, 1, 2}, Zstd},
		{[]byte{0x04, 0x22, 0x4d, 0x18, 0}, LZ4},
		{[]byte{0xd2, 0x07, 0x00, 0x00}, None},
	}

	for i := range tests {
		assert.Equal(t, tests[i].method, Detect(tests[i].b), "%d", i)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	inputs := [][]byte{
		{},
		{1, 2, 3},
		bytes.Repeat([]byte("ray"), 10000),
		make([]byte, 1<<16),
	}
	noise := make([]byte, 1<<15)
	rng.Read(noise)
	inputs = append(inputs, noise)

	for _, method := range []Method{None, Zstd, LZ4} {
		for i, in := range inputs {
			buf := &bytes.Buffer{}
			wc, err := NewWriter(buf, method)
			require.NoError(t, err)
			_, err = wc.Write(in)
			require.NoError(t, err)
			require.NoError(t, wc.Close())

			if method == None {
				assert.Equal(t, in, buf.Bytes()[:len(in)])
			} else {
				assert.Equal(t, method, Detect(buf.Bytes()),
					"%s %d", method, i)
			}

			rc, got, err := NewReader(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, method, got, "%s %d", method, i)
			out, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			assert.True(t, bytes.Equal(in, out), "%s %d", method, i)
		}
	}
}

func TestNewWriterUnknownMethod(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Method(12))
	assert.Error(t, err)
}

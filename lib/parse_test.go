package lib

import (
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/zrd/lib/compress"
)

func TestParseConfigDefaults(t *testing.T) {
	raw, err := ParseConfigFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRawArgs(), raw)

	args, err := raw.Process()
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxSegments, args.MaxSegments)
	assert.Equal(t, SystemByteOrder(), args.ByteOrder)
	assert.Equal(t, compress.None, args.Compression)
	assert.Equal(t, runtime.NumCPU(), args.Threads)
	assert.Equal(t, slog.LevelInfo, args.LogLevel)
	assert.Equal(t, "text", args.LogFormat)
}

func TestExampleConfig(t *testing.T) {
	raw, err := ParseConfigString(ExampleConfig)
	require.NoError(t, err)
	assert.Equal(t, DefaultRawArgs(), raw)
}

func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zrd.config")
	text := `[zrd]
MaxSegments = 50
ByteOrder = big
Compression = lz4
Threads = 3
LogLevel = debug
LogFormat = json
`
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))

	raw, err := ParseConfigFile(path)
	require.NoError(t, err)
	args, err := raw.Process()
	require.NoError(t, err)

	assert.Equal(t, 50, args.MaxSegments)
	assert.Equal(t, binary.BigEndian, args.ByteOrder)
	assert.Equal(t, compress.LZ4, args.Compression)
	assert.Equal(t, 3, args.Threads)
	assert.Equal(t, slog.LevelDebug, args.LogLevel)
	assert.Equal(t, "json", args.LogFormat)

	_, err = ParseConfigFile(filepath.Join(t.TempDir(), "missing.config"))
	assert.Error(t, err)
	_, err = ParseConfigString("[zrd]\nNotAVariable = 1\n")
	assert.Error(t, err)
}

func TestOverwrite(t *testing.T) {
	raw := DefaultRawArgs()
	flags := &RawArgs{}
	flags.Zrd.ByteOrder = "little"
	flags.Zrd.Threads = 2

	raw.Overwrite(flags)
	assert.Equal(t, "little", raw.Zrd.ByteOrder)
	assert.Equal(t, int64(2), raw.Zrd.Threads)
	assert.Equal(t, int64(DefaultMaxSegments), raw.Zrd.MaxSegments)
	assert.Equal(t, "none", raw.Zrd.Compression)
}

func TestProcessErrors(t *testing.T) {
	tests := []func(raw *RawArgs){
		func(raw *RawArgs) { raw.Zrd.MaxSegments = -1 },
		func(raw *RawArgs) { raw.Zrd.ByteOrder = "middle" },
		func(raw *RawArgs) { raw.Zrd.Compression = "gzip" },
		func(raw *RawArgs) { raw.Zrd.Threads = 0 },
		func(raw *RawArgs) { raw.Zrd.Threads = -2 },
		func(raw *RawArgs) { raw.Zrd.LogLevel = "loud" },
		func(raw *RawArgs) { raw.Zrd.LogFormat = "xml" },
	}

	for i := range tests {
		raw := DefaultRawArgs()
		tests[i](raw)
		_, err := raw.Process()
		assert.Error(t, err, "%d", i)
	}
}

package lib

import (
	"bytes"
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		set  func(raw *RawArgs)
		warn bool
	}{
		{func(raw *RawArgs) {}, false},
		{func(raw *RawArgs) { raw.Zrd.MaxSegments = BigMaxSegments + 1 }, true},
		{func(raw *RawArgs) { raw.Zrd.MaxSegments = 0 }, true},
		{func(raw *RawArgs) { raw.Zrd.Threads = int64(runtime.NumCPU() + 1) }, true},
	}

	for i := range tests {
		raw := DefaultRawArgs()
		tests[i].set(raw)

		buf := &bytes.Buffer{}
		logger := slog.New(slog.NewTextHandler(buf, nil))
		args, err := Check(WarnOnError, raw, logger)
		require.NoError(t, err, "%d", i)
		require.NotNil(t, args)
		assert.Equal(t, tests[i].warn, buf.Len() > 0, "%d", i)

		_, err = Check(CrashOnError, raw, DiscardLogger())
		assert.Equal(t, tests[i].warn, err != nil, "%d", i)
	}

	raw := DefaultRawArgs()
	raw.Zrd.MaxSegments = -5
	_, err := Check(WarnOnError, raw, DiscardLogger())
	assert.Error(t, err)
}

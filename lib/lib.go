/*package lib contains the small pieces shared by the zrd command and the
packages under lib/: byte order handling, logger construction, configuration
parsing, and the "check" mode. The ray file codec itself lives in lib/rayio.
*/
package lib

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sys/cpu"
)

// Version is the version of the software, reported by `zrd --version`.
const Version = "0.1.0"

// SystemByteOrder returns the byte order of the machine the code is running
// on. Ray files are written in the native order of the machine which traced
// them, so this is the default for reading and writing.
func SystemByteOrder() binary.ByteOrder {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ParseByteOrder converts "native", "little", or "big" into a byte order.
// The empty string is treated as "native".
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(name) {
	case "", "native":
		return SystemByteOrder(), nil
	case "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("'%s' is not a valid byte order. The only valid "+
		"byte orders are 'native', 'little', and 'big'.", name)
}

// ByteOrderName is the inverse of ParseByteOrder for explicit orders.
func ByteOrderName(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big"
	}
	return "little"
}

// ParseLogLevel converts a level name (debug, info, warn, error) to a
// slog.Level.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("'%s' is not a valid log level. "+
			"Valid levels are 'debug', 'info', 'warn', and 'error'.", name)
	}
	return level, nil
}

// NewLogger creates a logger writing to w in the given format ("text" or
// "json"). If w is nil, stderr is used.
func NewLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("'%s' is not a valid log format. The only valid "+
		"formats are 'text' and 'json'.", format)
}

// DiscardLogger returns a logger which drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

/*package error contains simple funcitons for reporting zrd errors.
*/
package error

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync/atomic"
)

var (
	logger atomic.Pointer[slog.Logger]
	// exit is swapped out by tests.
	exit = os.Exit
)

func init() {
	logger.Store(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// SetLogger sets the logger that External and Internal report through.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

// External reports an error and kills the program. It should be used when an
// error is something a user could reasonbly be expected to fix through
// changes in configuration/data/environement. It has the same signature at the
// standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	logger.Load().Error("zrd exited early with the following error",
		"error", fmt.Sprintf(format, a...))
	exit(1)
}

// Internal reports an error along with a stack trace and kills the program.
// It should be used when the error requires a code dive to fix. It has the
// same signature at the standard fmt.*printf() functions.
func Internal(format string, a ...interface{}) {
	logger.Load().Error("zrd exited early with an internal error",
		"error", fmt.Sprintf(format, a...),
		"stack", string(debug.Stack()))
	exit(1)
}

package errors

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mcdexio/perp-position-engine/common/logging"
)

var logger logging.Logger

// Initialize sets the logger used by Catch.
func Initialize(l logging.Logger) {
	logger = l
}

// Catch logs a recovered panic with its stack as critical, which terminates the
// process. It must be deferred.
func Catch() {
	if recovered := recover(); recovered != nil {
		report(logger, true, recovered, debug.Stack())
	}
}

// CatchWithLogger logs a recovered panic as an error and lets the goroutine end
// normally. It must be deferred.
func CatchWithLogger(l logging.Logger) {
	if recovered := recover(); recovered != nil {
		report(l, false, recovered, debug.Stack())
	}
}

func report(l logging.Logger, critical bool, recovered interface{}, stack []byte) {
	const format = "\x1b[31m%v\n[Stack Trace]\n%s\x1b[m"
	switch {
	case l == nil:
		fmt.Fprintf(os.Stderr, format, recovered, stack)
	case critical:
		l.Critical(format, recovered, stack)
	default:
		l.Error(format, recovered, stack)
	}
}

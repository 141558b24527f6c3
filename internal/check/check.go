// Package check provides fatal assertions for registry bookkeeping.
//
// The registry mirrors its state into records an external debugger reads
// directly, so an invariant violation is never recoverable: continuing
// would desynchronize the debugger-visible lists. Violations panic.
package check

import "fmt"

// Assert panics with msg when cond is false.
func Assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

// Assertf is Assert with a formatted message.
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

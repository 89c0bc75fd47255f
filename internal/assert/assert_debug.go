//go:build clipdebug

package assert

import "fmt"

// Enabled reports whether invariant checks are compiled in.
const Enabled = true

// Failf panics with the formatted message.
func Failf(format string, args ...any) {
	panic(fmt.Sprintf("invariant violated: "+format, args...))
}

// Package assert provides internal invariant checks for the real-time path.
//
// The checks are compiled in only when building with the 'clipdebug' tag:
//
//	go test -tags clipdebug ./...
//
// Callers test the condition themselves and call Failf only on the failing
// branch, guarded by Enabled:
//
//	if assert.Enabled && k >= capacity {
//		assert.Failf("offset %d", k)
//	}
//
// so the arguments are never boxed on the hot path and release builds
// drop the check entirely.
package assert

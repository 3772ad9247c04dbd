package testkit

import (
	"sync"
	"testing"
)

// serial guards package-level seams shared across packages' tests
var serial sync.Mutex

// Swap points *target at replacement until the test and its subtests finish
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	prev := *target
	*target = replacement
	t.Cleanup(func() { *target = prev })
}

// Serial holds a process-wide lock for the rest of the test.
// Tests that swap seams another test may read call it first.
func Serial(t *testing.T) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}

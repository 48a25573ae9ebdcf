// Package leaktest verifies that components which start background goroutines
// shut them all down again, and that repeated work does not pin memory.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleInterval = 10 * time.Millisecond
	settleTimeout  = 2 * time.Second
)

// CheckNoGoroutineLeak runs fn and fails the test if the goroutine count has
// not returned to its starting point shortly afterwards. Everything fn starts
// must be fully stopped before fn returns.
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()

	before := stableGoroutineCount()
	fn()

	deadline := time.Now().Add(settleTimeout)
	var after int
	for time.Now().Before(deadline) {
		runtime.GC()
		after = runtime.NumGoroutine()
		if after <= before {
			return
		}
		time.Sleep(settleInterval)
	}
	t.Errorf("goroutine leak: %d before, %d after", before, after)
}

// CheckHeapGrowth runs fn and fails the test if the live heap grew by more
// than maxGrowthMB once fn's garbage has been collected.
func CheckHeapGrowth(t *testing.T, maxGrowthMB float64, fn func()) {
	t.Helper()

	before := liveHeapMB()
	fn()

	if growth := liveHeapMB() - before; growth > maxGrowthMB {
		t.Errorf("heap grew %.2fMB, limit %.2fMB", growth, maxGrowthMB)
	}
}

// stableGoroutineCount lets goroutines from earlier tests wind down before
// taking the baseline.
func stableGoroutineCount() int {
	for i := 0; i < 3; i++ {
		runtime.Gosched()
		time.Sleep(settleInterval)
	}
	return runtime.NumGoroutine()
}

func liveHeapMB() float64 {
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.HeapAlloc) / (1 << 20)
}

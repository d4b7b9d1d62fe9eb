// Package diag provides preflight sizing checks and read-only stat
// snapshots for a frame ring, built on github.com/shirou/gopsutil/v3.
package diag

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/srediag/frame-ring/pkg/ring"
)

// safetyMargin is the fraction of available memory CheckAvailableMemory
// refuses to let a single ring consume, leaving headroom for the rest of
// the sensor pipeline.
const safetyMargin = 0.5

// CheckAvailableMemory fails if wantBytes would consume more than
// safetyMargin of currently available host memory. Called by callers
// before ring.Create, so an oversized capacity*frame_bytes request fails
// with a clear message instead of an opaque ftruncate/CreateFileMapping
// error surfacing from deep inside internal/shm.
func CheckAvailableMemory(ctx context.Context, wantBytes uint64) error {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return fmt.Errorf("diag: read host memory stats: %w", err)
	}
	if budget := uint64(float64(vm.Available) * safetyMargin); wantBytes > budget {
		return fmt.Errorf("diag: requested region of %d bytes exceeds the %.0f%% of available memory (%d bytes) this check allows",
			wantBytes, safetyMargin*100, budget)
	}
	return nil
}

// Stats is a read-only snapshot of a ring's state for logging or a
// diagnostics CLI.
type Stats struct {
	Capacity      uint64
	FrameBytes    uint64
	WriteIndex    uint64
	OccupiedSlots uint64
}

// Snapshot reads r's current state without mutating anything.
func Snapshot(r *ring.Ring) Stats {
	idx := r.WriteIndex()
	occupied := idx
	if occupied > r.Capacity() {
		occupied = r.Capacity()
	}
	return Stats{
		Capacity:      r.Capacity(),
		FrameBytes:    r.FrameBytes(),
		WriteIndex:    idx,
		OccupiedSlots: occupied,
	}
}

// Package ring implements the frame ring protocol: a header plus a
// fixed-capacity circular array of fixed-size frames, published by a
// single writer and observed lock-free by any number of readers. See
// SPEC_FULL.md §4.B for the full contract; this file is the seqlock-style
// publish/observe/view core, unchanged in semantics from spec.md.
package ring

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/srediag/frame-ring/internal/metrics"
	"github.com/srediag/frame-ring/internal/shm"
)

// Config carries the optional ambient wiring for a Ring: instrumentation
// only, for now. The zero Config is valid and disables instrumentation.
type Config struct {
	Instrumentation *metrics.Instrumentation
}

// Ring is the per-process handle onto a mapped frame ring. It is not
// safe for concurrent use by multiple goroutines unless they are all
// readers calling only WriteIndex/ViewFrame/ViewWindow — see spec.md §5.
type Ring struct {
	name       string
	region     *shm.MappedRegion
	capacity   uint64
	frameBytes uint64
	inst       *metrics.Instrumentation
}

// Create brings a backing object named name into existence, sizes it to
// hold capacity frames of frameBytes each, maps it, and initializes the
// header (write_idx = 0). Fails with an error wrapping
// internal/shm.ErrResourceCreateFailed, ErrSizingFailed or ErrMapFailed.
func Create(ctx context.Context, name string, capacity, frameBytes uint64, cfg Config) (*Ring, error) {
	total := TotalBytes(capacity, frameBytes)
	region, err := shm.Map(ctx, shm.MapOptions{Name: name, Size: int(total), Create: true})
	if err != nil {
		return nil, err
	}

	r := &Ring{name: name, region: region, capacity: capacity, frameBytes: frameBytes, inst: cfg.Instrumentation}
	r.putUint64(offsetCapacity, capacity)
	r.putUint64(offsetFrameSize, frameBytes)
	shm.StoreUint64Release(r.fieldPtr(offsetWriteIdx), 0)
	return r, nil
}

// Open attaches to an existing backing object named name and maps it,
// expecting capacity and frameBytes to match what the creator recorded;
// the header's own values are authoritative and are cross-checked here.
// Fails with an error wrapping internal/shm.ErrResourceOpenFailed or
// ErrMapFailed, or with ErrHeaderMismatch if the recorded capacity or
// frame size disagree with what the caller expected.
func Open(ctx context.Context, name string, capacity, frameBytes uint64, cfg Config) (*Ring, error) {
	total := TotalBytes(capacity, frameBytes)
	region, err := shm.Map(ctx, shm.MapOptions{Name: name, Size: int(total), Create: false})
	if err != nil {
		return nil, err
	}

	r := &Ring{name: name, region: region, capacity: capacity, frameBytes: frameBytes, inst: cfg.Instrumentation}
	if gotCap, gotFrame := r.getUint64(offsetCapacity), r.getUint64(offsetFrameSize); gotCap != capacity || gotFrame != frameBytes {
		_ = shm.Unmap(region)
		return nil, fmt.Errorf("%w: header records capacity=%d frame_bytes=%d, caller expected capacity=%d frame_bytes=%d",
			ErrHeaderMismatch, gotCap, gotFrame, capacity, frameBytes)
	}
	return r, nil
}

// Close unmaps the region and releases the OS handle. Idempotent.
func (r *Ring) Close() error {
	if r == nil || r.region == nil {
		return nil
	}
	return shm.Unmap(r.region)
}

// Take transfers ownership of the underlying mapping to a new *Ring value
// and leaves r in the Empty state (spec.md's move semantics on the
// Mapping handle). The moved-from Ring performs a no-op Close.
func (r *Ring) Take() *Ring {
	moved := &Ring{
		name:       r.name,
		region:     r.region.Take(),
		capacity:   r.capacity,
		frameBytes: r.frameBytes,
		inst:       r.inst,
	}
	r.capacity, r.frameBytes = 0, 0
	return moved
}

// Closed reports whether the ring's region has been torn down (spec.md's
// "Empty" state), e.g. after Close or after losing ownership via Take.
func (r *Ring) Closed() bool {
	return r == nil || r.region.Empty()
}

// Capacity is the number of frame slots. Immutable for the ring's life.
func (r *Ring) Capacity() uint64 { return r.capacity }

// FrameBytes is the byte size of a single slot. Immutable for the ring's life.
func (r *Ring) FrameBytes() uint64 { return r.frameBytes }

// WriteIndex returns the current write_idx under acquire ordering. Any
// L with max(0, WriteIndex()-Capacity()) <= L < WriteIndex() is safe to
// view.
func (r *Ring) WriteIndex() uint64 {
	return shm.LoadUint64Acquire(r.fieldPtr(offsetWriteIdx))
}

// Publish copies nFrames consecutive frames of frameBytes each from
// frames into the ring and atomically advances write_idx by nFrames.
// frames must hold exactly nFrames*FrameBytes() contiguous bytes; Publish
// does not validate this (spec.md §4.B: "publish itself cannot fail under
// single-producer discipline" — the contiguity/size check is the
// scripting adapter's job, see pkg/adapter). If nFrames exceeds Capacity()
// or readers lag, older frames are silently overwritten by design.
func (r *Ring) Publish(ctx context.Context, frames []byte, nFrames int) {
	ctx, end := r.startPublishSpan(ctx)
	defer end()

	idx := shm.LoadUint64Acquire(r.fieldPtr(offsetWriteIdx))
	for i := 0; i < nFrames; i++ {
		slot := (idx + uint64(i)) % r.capacity
		dst := r.slot(slot)
		src := frames[uint64(i)*r.frameBytes : uint64(i+1)*r.frameBytes]
		copy(dst, src)
	}
	newIdx := idx + uint64(nFrames)
	shm.StoreUint64Release(r.fieldPtr(offsetWriteIdx), newIdx)

	if r.inst != nil {
		r.inst.RecordPublish(ctx, r.name, nFrames, newIdx)
	}
}

func (r *Ring) startPublishSpan(ctx context.Context) (context.Context, func()) {
	if r.inst == nil {
		return ctx, func() {}
	}
	return r.inst.StartPublishSpan(ctx, r.name)
}

// fieldPtr returns a pointer to an 8-byte header field at the given
// offset, valid as long as the region stays mapped.
func (r *Ring) fieldPtr(offset int) unsafe.Pointer {
	return unsafe.Pointer(&r.region.Addr[offset])
}

func (r *Ring) putUint64(offset int, v uint64) {
	shm.StoreUint64Release(r.fieldPtr(offset), v)
}

func (r *Ring) getUint64(offset int) uint64 {
	return shm.LoadUint64Acquire(r.fieldPtr(offset))
}

// slot returns the frameBytes-long byte range backing slot s.
func (r *Ring) slot(s uint64) []byte {
	off := headerSize + s*r.frameBytes
	return r.region.Addr[off : off+r.frameBytes]
}

package ring

import (
	"fmt"
	"unsafe"
)

// FrameView is a zero-copy, read-only interpretation of one ring slot as a
// row-major (channels x samples) array of 32-bit floats. It borrows
// directly from the mapped region: it stays valid only as long as the
// Ring it came from remains open, and — per spec.md §4.B — carries no
// guarantee that the underlying slot has not since been overwritten by
// the producer. Callers are responsible for bracketing reads with
// WriteIndex checks if they need torn-read safety.
type FrameView struct {
	Channels int
	Samples  int
	data     []float32
}

// At returns the sample at (channel, sample) without bounds-checking
// beyond what the slice underneath already provides.
func (v FrameView) At(channel, sample int) float32 {
	return v.data[channel*v.Samples+sample]
}

// Raw returns the backing row-major float32 slice. It aliases shared
// memory; callers must not retain it past the owning Ring's lifetime and
// must not write through it.
func (v FrameView) Raw() []float32 { return v.data }

// WindowView is a zero-copy, read-only interpretation of nFrames
// contiguous ring slots as a (frames x channels x samples) array.
type WindowView struct {
	Frames   int
	Channels int
	Samples  int
	data     []float32
}

// Frame returns the i-th frame of the window as a FrameView.
func (v WindowView) Frame(i int) FrameView {
	stride := v.Channels * v.Samples
	return FrameView{
		Channels: v.Channels,
		Samples:  v.Samples,
		data:     v.data[i*stride : (i+1)*stride],
	}
}

// Raw returns the backing row-major float32 slice, frame-major.
func (v WindowView) Raw() []float32 { return v.data }

// ViewFrame returns a read-only borrow into slot L mod Capacity(),
// interpreted as (channels x samples) float32s. No check against
// WriteIndex is performed: the caller must ensure L is within the valid
// window before dereferencing the view, per spec.md §4.B. The caller-
// supplied shape is not validated against FrameBytes() either — an
// oversized shape reads past the slot exactly as the pybind11 binding
// this protocol was distilled from does, via raw stride arithmetic.
func (r *Ring) ViewFrame(logicalIdx uint64, channels, samples int) FrameView {
	slot := logicalIdx % r.capacity
	return FrameView{
		Channels: channels,
		Samples:  samples,
		data:     floatsAt(r.slot(slot), channels*samples),
	}
}

// ViewWindow returns a read-only borrow covering nFrames contiguous slots
// beginning at start mod Capacity(), interpreted as
// (nFrames x channels x samples) float32s. Fails with ErrWindowWraps if
// the window would cross the ring boundary; split the request into two
// calls over the non-wrapping halves instead.
func (r *Ring) ViewWindow(start uint64, nFrames, channels, samples int) (WindowView, error) {
	slot := start % r.capacity
	if slot+uint64(nFrames) > r.capacity {
		if r.inst != nil {
			r.inst.RecordWindowWraps(r.name)
		}
		return WindowView{}, fmt.Errorf("%w: start=%d n_frames=%d capacity=%d", ErrWindowWraps, start, nFrames, r.capacity)
	}

	off := headerSize + slot*r.frameBytes
	byteLen := uint64(nFrames) * r.frameBytes
	raw := r.region.Addr[off : off+byteLen]
	return WindowView{
		Frames:   nFrames,
		Channels: channels,
		Samples:  samples,
		data:     floatsAt(raw, nFrames*channels*samples),
	}, nil
}

// floatsAt reinterprets the first n*4 bytes of b as a []float32 without
// copying.
func floatsAt(b []byte, n int) []float32 {
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), n)
}

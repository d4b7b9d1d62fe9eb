// Package adapter is the Go-side embodiment of the contract spec.md §4.B
// assigns to "the scripting-language binding layer that exposes the ring
// as array-like views" — a layer spec.md deliberately keeps out of the
// core (§1) but whose enforcement rules (§4.B, §7 InvalidArgument) are in
// scope, since any binding built on top of this ring must apply them.
// Grounded on the pybind11 buffer-protocol contract in
// original_source/sensor_core/native/fastring/py_module.cpp: a bound
// caller must supply a C-contiguous buffer whose byte length is an exact
// multiple of frame_bytes.
package adapter

import (
	"errors"
	"fmt"

	"github.com/valyala/bytebufferpool"
)

// ErrInvalidArgument is spec.md §7's InvalidArgument kind.
var ErrInvalidArgument = errors.New("adapter: invalid argument")

// CheckContiguous validates that buf's length is an exact multiple of
// frameBytes and returns the implied frame count. Go slices are always
// contiguous, so unlike the pybind11 binding this only needs the length
// check; the C-contiguity half of the original check is a non-issue in Go.
func CheckContiguous(buf []byte, frameBytes int) (nFrames int, err error) {
	if frameBytes <= 0 {
		return 0, fmt.Errorf("%w: frame_bytes must be positive, got %d", ErrInvalidArgument, frameBytes)
	}
	if len(buf)%frameBytes != 0 {
		return 0, fmt.Errorf("%w: buffer length %d is not a multiple of frame_bytes %d", ErrInvalidArgument, len(buf), frameBytes)
	}
	return len(buf) / frameBytes, nil
}

// FrameBuffer reuses a scratch byte buffer across repeated adapter calls
// from a hot binding loop, mirroring the sync.Pool-backed buffer reuse in
// the teacher's pkg/plugin/buffer_slice.go, but via
// github.com/valyala/bytebufferpool, the pool the teacher's go.mod
// declared without ever wiring in.
type FrameBuffer struct {
	pool bytebufferpool.Pool
}

// StageFrames validates buf against frameBytes via CheckContiguous, then
// copies it into a pooled scratch buffer so the caller's buf can be
// reused or released immediately after this call returns. The returned
// []byte is on loan from the pool: call the returned release func when
// done with it.
func (f *FrameBuffer) StageFrames(buf []byte, frameBytes int) (staged []byte, nFrames int, release func(), err error) {
	nFrames, err = CheckContiguous(buf, frameBytes)
	if err != nil {
		return nil, 0, func() {}, err
	}

	bb := f.pool.Get()
	bb.Reset()
	_, _ = bb.Write(buf)
	release = func() { f.pool.Put(bb) }
	return bb.Bytes(), nFrames, release, nil
}

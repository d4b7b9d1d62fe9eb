package ring

import "errors"

// Error kinds surfaced at the ring's API boundary, per spec.md §7.
// ResourceCreateFailed, ResourceOpenFailed, MapFailed and SizingFailed
// originate in internal/shm and are forwarded unwrapped-twice (errors.Is
// still matches the internal/shm sentinel); ErrWindowWraps is native to
// this package.
var (
	// ErrWindowWraps is returned by ViewWindow when the requested range
	// crosses the ring boundary; the caller is expected to split the
	// request into two non-wrapping calls.
	ErrWindowWraps = errors.New("ring: window wraps capacity")

	// ErrHeaderMismatch is returned by Open when the mapped header's
	// recorded capacity/frame_bytes disagree with what the caller asked
	// to open.
	ErrHeaderMismatch = errors.New("ring: header mismatch")
)

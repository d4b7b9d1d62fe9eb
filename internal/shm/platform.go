// Package shm owns the OS-level backing object for a mapped shared-memory
// region: creation/attachment of the backing object, sizing, mapping, and
// teardown. It knows nothing about ring headers or frame slots — that
// interpretation belongs to pkg/ring, which is the only caller of this
// package.
package shm

import (
	"context"
	"errors"
)

// Sentinel error kinds, matched with errors.Is at call sites. Wrapped with
// context via fmt.Errorf("...: %w", ...) at the point of failure.
var (
	ErrResourceCreateFailed = errors.New("shm: resource create failed")
	ErrResourceOpenFailed   = errors.New("shm: resource open failed")
	ErrMapFailed            = errors.New("shm: map failed")
	ErrSizingFailed         = errors.New("shm: sizing failed")
)

// MapOptions describes a request to create-or-open a named backing object
// and map it into the process.
type MapOptions struct {
	// Name is an OS-legal name in the platform's shared-memory namespace
	// (a leading-slash shm name on POSIX, a kernel object name on Windows).
	Name string
	// Size is the total number of bytes to size the backing object to.
	Size int
	// Create selects create-or-resize semantics; false selects
	// attach-to-existing semantics.
	Create bool
}

// MappedRegion is the per-process, non-shared handle to a mapped backing
// object. It is exclusively owned: Addr is non-nil exactly when the handle
// is in the Mapped state; Take zeroes the receiver and returns a handle
// carrying the same resources, modeling move-only ownership in a language
// without a borrow checker. Unmap is idempotent on the zero/moved-from
// value.
type MappedRegion struct {
	Addr []byte
	sys  sysRegion
}

// Empty reports whether the handle is in the post-teardown / moved-from
// state (spec.md's "Empty" state).
func (r *MappedRegion) Empty() bool {
	return r == nil || r.Addr == nil
}

// Take transfers ownership out of r, leaving r in the Empty state. Callers
// use this the way spec.md's move-semantics require: the source handle
// performs no teardown and is left with all pointers null.
func (r *MappedRegion) Take() *MappedRegion {
	if r == nil {
		return nil
	}
	moved := &MappedRegion{Addr: r.Addr, sys: r.sys}
	r.Addr = nil
	r.sys = sysRegion{}
	return moved
}

// Map creates-or-opens the backing object named by opts.Name and maps it,
// dispatching to the platform-specific implementation compiled for this
// build (region_unix.go or region_windows.go).
func Map(ctx context.Context, opts MapOptions) (*MappedRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return mapRegion(opts)
}

// Unmap tears down region: unmaps the view and releases the OS handle. It
// is a no-op on an already-empty region, so double calls (e.g. from a
// deferred Unmap after an explicit one) are harmless.
func Unmap(region *MappedRegion) error {
	if region.Empty() {
		return nil
	}
	err := unmapRegion(region)
	region.Addr = nil
	region.sys = sysRegion{}
	return err
}

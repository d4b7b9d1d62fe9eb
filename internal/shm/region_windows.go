//go:build windows

package shm

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// sysRegion is the Windows-side OS resource: the file-mapping kernel
// object handle plus the base address of the view, needed to unmap and
// close it later.
type sysRegion struct {
	handle windows.Handle
	base   uintptr
	len    int
}

func mapRegion(opts MapOptions) (*MappedRegion, error) {
	namePtr, err := windows.UTF16PtrFromString(opts.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid name %q: %v", ErrResourceCreateFailed, opts.Name, err)
	}

	var handle windows.Handle
	if opts.Create {
		size := uint64(opts.Size)
		handle, err = windows.CreateFileMapping(
			windows.InvalidHandle, // backed by the system paging file
			nil,
			windows.PAGE_READWRITE,
			uint32(size>>32),
			uint32(size&0xFFFFFFFF),
			namePtr,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: CreateFileMapping %q: %v", ErrResourceCreateFailed, opts.Name, err)
		}
	} else {
		handle, err = windows.OpenFileMapping(windows.FILE_MAP_ALL_ACCESS, false, namePtr)
		if err != nil {
			return nil, fmt.Errorf("%w: OpenFileMapping %q: %v", ErrResourceOpenFailed, opts.Name, err)
		}
	}

	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_ALL_ACCESS, 0, 0, uintptr(opts.Size))
	if err != nil {
		_ = windows.CloseHandle(handle)
		return nil, fmt.Errorf("%w: MapViewOfFile %q (%d bytes): %v", ErrMapFailed, opts.Name, opts.Size, err)
	}

	buf := unsafe.Slice((*byte)(unsafe.Pointer(addr)), opts.Size)
	return &MappedRegion{
		Addr: buf,
		sys:  sysRegion{handle: handle, base: addr, len: opts.Size},
	}, nil
}

func unmapRegion(r *MappedRegion) error {
	var errs []error
	if err := windows.UnmapViewOfFile(r.sys.base); err != nil {
		errs = append(errs, fmt.Errorf("UnmapViewOfFile: %w", err))
	}
	if err := windows.CloseHandle(r.sys.handle); err != nil {
		errs = append(errs, fmt.Errorf("CloseHandle: %w", err))
	}
	if len(errs) == 0 {
		return nil
	}
	err := errs[0]
	for _, e := range errs[1:] {
		err = fmt.Errorf("%w; %v", err, e)
	}
	return err
}

// Unlink is a no-op on Windows: a named file mapping disappears once its
// last handle closes, per spec.md §6.
func Unlink(name string) error {
	return nil
}

//go:build !windows

package shm

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// sysRegion is the POSIX-side OS resource: the shared-memory object's file
// descriptor plus the mapping length needed to unmap it later.
type sysRegion struct {
	fd  int
	len int
}

// shmPath resolves an OS-legal shared-memory name to the path backing it.
// POSIX shm_open namespaces its names under a virtual filesystem; on Linux
// that filesystem is mounted at /dev/shm and a plain path join reproduces
// shm_open's own name-to-path behavior for names that already carry a
// leading slash.
func shmPath(name string) string {
	return filepath.Join("/dev/shm", name)
}

func mapRegion(opts MapOptions) (*MappedRegion, error) {
	path := shmPath(opts.Name)

	flags := unix.O_RDWR
	if opts.Create {
		flags |= unix.O_CREAT
	}
	fd, err := unix.Open(path, flags, 0600)
	if err != nil {
		if opts.Create {
			return nil, fmt.Errorf("%w: shm_open create %q: %v", ErrResourceCreateFailed, opts.Name, err)
		}
		return nil, fmt.Errorf("%w: shm_open open %q: %v", ErrResourceOpenFailed, opts.Name, err)
	}

	if opts.Create {
		if err := unix.Ftruncate(fd, int64(opts.Size)); err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("%w: ftruncate %q to %d: %v", ErrSizingFailed, opts.Name, opts.Size, err)
		}
	}

	addr, err := unix.Mmap(fd, 0, opts.Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: mmap %q (%d bytes): %v", ErrMapFailed, opts.Name, opts.Size, err)
	}

	return &MappedRegion{
		Addr: addr,
		sys:  sysRegion{fd: fd, len: opts.Size},
	}, nil
}

func unmapRegion(r *MappedRegion) error {
	var errs []error
	if err := unix.Munmap(r.Addr); err != nil {
		errs = append(errs, fmt.Errorf("munmap: %w", err))
	}
	if err := unix.Close(r.sys.fd); err != nil {
		errs = append(errs, fmt.Errorf("close: %w", err))
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

// Unlink removes the POSIX shared-memory object by name. It is not called
// by Map/Unmap — see spec.md §9 Open Question 1: the backing object
// persists across producer restarts unless a caller explicitly asks for
// its removal.
func Unlink(name string) error {
	return unix.Unlink(shmPath(name))
}

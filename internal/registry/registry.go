// Package registry is a process-local, concurrency-safe cache of open
// named rings, for a consumer process that attaches to several rings at
// once (e.g. one per sensor channel group). It is a caller-side
// convenience only — pkg/ring itself holds no global state, per
// spec.md §9, and a Registry is never shared across processes; the OS
// name remains the only cross-process identity.
package registry

import (
	"context"
	"errors"
	"fmt"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/srediag/frame-ring/pkg/ring"
)

// Registry caches Ring handles by name within one process.
type Registry struct {
	rings cmap.ConcurrentMap[string, *ring.Ring]
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{rings: cmap.New[*ring.Ring]()}
}

// OpenOrGet opens name once per process and returns the cached handle to
// subsequent callers; the capacity/frameBytes/cfg those later callers pass
// are ignored in favor of the ones used by the call that opened it. It does not change pkg/ring's one-handle-per-open-call
// contract: every OpenOrGet caller in this process shares the same *Ring.
func (r *Registry) OpenOrGet(ctx context.Context, name string, capacity, frameBytes uint64, cfg ring.Config) (*ring.Ring, error) {
	if existing, ok := r.rings.Get(name); ok {
		return existing, nil
	}

	opened, err := ring.Open(ctx, name, capacity, frameBytes, cfg)
	if err != nil {
		return nil, err
	}

	// SetIfAbsent is the atomic check-and-insert this cache needs: two
	// concurrent first-time callers can both reach this point with their
	// own opened handle, but only one SetIfAbsent call wins. The loser
	// closes its now-redundant mapping and returns the winner's handle,
	// so every caller in this process still ends up sharing one *Ring.
	if !r.rings.SetIfAbsent(name, opened) {
		_ = opened.Close()
		existing, _ := r.rings.Get(name)
		return existing, nil
	}
	return opened, nil
}

// CloseAll tears down every cached ring, collecting and joining any
// individual close errors.
func (r *Registry) CloseAll() error {
	var errs []error
	r.rings.IterCb(func(name string, ring *ring.Ring) {
		if err := ring.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", name, err))
		}
	})
	r.rings.Clear()
	return errors.Join(errs...)
}

// Len reports the number of rings currently cached.
func (r *Registry) Len() int {
	return r.rings.Count()
}
